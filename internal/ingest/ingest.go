// Package ingest produces the raw report text the extractor consumes, along
// with the method tag describing how the text was obtained. The desktop
// shell normally supplies OCR output directly; these providers cover the CLI
// path where only a PDF is at hand.
package ingest

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/valuation-cli/internal/config"
	"github.com/sells-group/valuation-cli/internal/model"
)

// Result is extracted report text plus its provenance tag.
type Result struct {
	Text   string
	Method model.ExtractionMethod
}

// Extractor extracts report text from a PDF file.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (*Result, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.IngestConfig) (Extractor, error) {
	switch cfg.Provider {
	case "textlayer", "":
		return NewPDFText(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "hybrid":
		return NewHybrid(NewPDFText(), NewPdfToText(cfg.PdfToTextPath), cfg.HybridMinChars), nil
	default:
		return nil, eris.Errorf("ingest: unknown provider %q", cfg.Provider)
	}
}
