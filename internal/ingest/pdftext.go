package ingest

import (
	"bytes"
	"context"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"

	"github.com/sells-group/valuation-cli/internal/model"
)

// PDFText reads the embedded text layer of a PDF. Cheap and exact when the
// report was generated digitally; useless for scanned documents.
type PDFText struct{}

// NewPDFText creates a text-layer extractor.
func NewPDFText() *PDFText {
	return &PDFText{}
}

// ExtractText implements Extractor.
func (p *PDFText) ExtractText(_ context.Context, pdfPath string) (*Result, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open pdf %s", pdfPath)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read text layer %s", pdfPath)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, eris.Wrapf(err, "ingest: read text layer %s", pdfPath)
	}

	return &Result{Text: buf.String(), Method: model.MethodStandard}, nil
}
