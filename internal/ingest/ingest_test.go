package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/valuation-cli/internal/config"
	"github.com/sells-group/valuation-cli/internal/model"
)

// stubExtractor returns canned output for hybrid tests.
type stubExtractor struct {
	result *Result
	err    error
}

func (s *stubExtractor) ExtractText(_ context.Context, _ string) (*Result, error) {
	return s.result, s.err
}

func TestNewExtractor_ProviderSelection(t *testing.T) {
	tests := []struct {
		provider string
		want     any
	}{
		{"textlayer", &PDFText{}},
		{"", &PDFText{}},
		{"pdftotext", &PdfToText{}},
		{"hybrid", &Hybrid{}},
	}
	for _, tt := range tests {
		ex, err := NewExtractor(config.IngestConfig{Provider: tt.provider})
		require.NoError(t, err, "provider %q", tt.provider)
		assert.IsType(t, tt.want, ex, "provider %q", tt.provider)
	}
}

func TestNewExtractor_UnknownProvider(t *testing.T) {
	_, err := NewExtractor(config.IngestConfig{Provider: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestHybrid_LongTextLayerWins(t *testing.T) {
	long := strings.Repeat("report text ", 50)
	h := NewHybrid(
		&stubExtractor{result: &Result{Text: long, Method: model.MethodStandard}},
		&stubExtractor{err: eris.New("ocr should not run")},
		200,
	)

	res, err := h.ExtractText(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, long, res.Text)
	assert.Equal(t, model.MethodStandard, res.Method)
}

func TestHybrid_ShortTextLayerCombines(t *testing.T) {
	h := NewHybrid(
		&stubExtractor{result: &Result{Text: "sparse layer", Method: model.MethodStandard}},
		&stubExtractor{result: &Result{Text: "ocr body", Method: model.MethodOCR}},
		200,
	)

	res, err := h.ExtractText(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "sparse layer\nocr body", res.Text)
	assert.Equal(t, model.MethodHybrid, res.Method)
}

func TestHybrid_TextLayerFailureFallsBack(t *testing.T) {
	h := NewHybrid(
		&stubExtractor{err: eris.New("no text layer")},
		&stubExtractor{result: &Result{Text: "ocr body", Method: model.MethodOCR}},
		200,
	)

	res, err := h.ExtractText(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "ocr body", res.Text)
	assert.Equal(t, model.MethodOCR, res.Method)
}

func TestHybrid_BothFail(t *testing.T) {
	h := NewHybrid(
		&stubExtractor{err: eris.New("no text layer")},
		&stubExtractor{err: eris.New("ocr failed")},
		200,
	)

	_, err := h.ExtractText(context.Background(), "report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ocr failed")
}

func TestHybrid_OCRFailureKeepsShortPrimary(t *testing.T) {
	h := NewHybrid(
		&stubExtractor{result: &Result{Text: "sparse layer", Method: model.MethodStandard}},
		&stubExtractor{err: eris.New("ocr failed")},
		200,
	)

	res, err := h.ExtractText(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "sparse layer", res.Text)
	assert.Equal(t, model.MethodStandard, res.Method)
}

func TestNewHybrid_DefaultMinChars(t *testing.T) {
	h := NewHybrid(&stubExtractor{}, &stubExtractor{}, 0)
	assert.Equal(t, defaultHybridMinChars, h.minChars)
}
