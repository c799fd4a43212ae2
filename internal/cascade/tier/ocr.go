package tier

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-cli/internal/cascade"
	"github.com/sells-group/esg-cli/internal/extract"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/ocr"
)

// OCR is tier 2: rasterize pages and run character recognition, then apply
// the same field extractors tier 1 uses. Catches scanned and image-based
// bills that have no text layer.
type OCR struct {
	engine   ocr.Engine
	flatCost float64
	timeout  time.Duration
}

// NewOCR creates the OCR tier.
func NewOCR(engine ocr.Engine, flatCostUSD float64, timeout time.Duration) *OCR {
	return &OCR{engine: engine, flatCost: flatCostUSD, timeout: timeout}
}

func (o *OCR) Name() string { return "ocr" }

func (o *OCR) Method() model.Method { return model.MethodOCR }

func (o *OCR) Extract(ctx context.Context, doc cascade.Document) (*cascade.Attempt, error) {
	if doc.Path == "" {
		return nil, eris.New("tier: ocr requires a document path")
	}

	tctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	text, err := o.engine.ExtractText(tctx, doc.Path)
	if err != nil {
		return nil, err
	}

	return &cascade.Attempt{
		Record:  extract.FromText(text),
		CostUSD: o.flatCost,
	}, nil
}
