package ingest

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"

	"github.com/sells-group/valuation-cli/internal/model"
)

// PdfToText extracts text using the pdftotext CLI tool, which handles
// scanned reports that have been OCRed upstream of the text layer.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, pdfPath string) (*Result, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "ingest: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return &Result{Text: stdout.String(), Method: model.MethodOCR}, nil
}
