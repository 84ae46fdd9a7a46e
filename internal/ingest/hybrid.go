package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/valuation-cli/internal/model"
)

// defaultHybridMinChars is the text-layer length below which the hybrid
// extractor also runs the OCR path.
const defaultHybridMinChars = 200

// Hybrid tries the text layer first and falls back to (or combines with)
// the OCR path when the text layer is sparse, tagging the result hybrid.
type Hybrid struct {
	textLayer Extractor
	ocr       Extractor
	minChars  int
}

// NewHybrid creates a Hybrid extractor. minChars <= 0 uses the default.
func NewHybrid(textLayer, ocr Extractor, minChars int) *Hybrid {
	if minChars <= 0 {
		minChars = defaultHybridMinChars
	}
	return &Hybrid{textLayer: textLayer, ocr: ocr, minChars: minChars}
}

// ExtractText implements Extractor.
func (h *Hybrid) ExtractText(ctx context.Context, pdfPath string) (*Result, error) {
	primary, err := h.textLayer.ExtractText(ctx, pdfPath)
	if err == nil && len(primary.Text) >= h.minChars {
		return primary, nil
	}
	if err != nil {
		zap.L().Debug("ingest: text layer failed, trying ocr path",
			zap.String("pdf", pdfPath),
			zap.Error(err),
		)
		primary = &Result{}
	}

	secondary, ocrErr := h.ocr.ExtractText(ctx, pdfPath)
	if ocrErr != nil {
		if err != nil {
			// Both paths failed.
			return nil, ocrErr
		}
		return primary, nil
	}

	if primary.Text == "" {
		return secondary, nil
	}
	return &Result{
		Text:   primary.Text + "\n" + secondary.Text,
		Method: model.MethodHybrid,
	}, nil
}
