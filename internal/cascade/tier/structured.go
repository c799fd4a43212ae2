// Package tier implements the three method extractors the cascade runs
// over: structured text-layer parsing, OCR, and model vision.
package tier

import (
	"context"
	"time"

	"github.com/sells-group/esg-cli/internal/cascade"
	"github.com/sells-group/esg-cli/internal/extract"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/ocr"
)

// Structured is tier 1: read the PDF's embedded text layer with layout
// preservation and run the field extractors over it. Fast, nearly free,
// and sufficient for most machine-generated bills.
type Structured struct {
	pdf      *ocr.PdfToText
	flatCost float64
	timeout  time.Duration
}

// NewStructured creates the structured tier.
func NewStructured(pdf *ocr.PdfToText, flatCostUSD float64, timeout time.Duration) *Structured {
	return &Structured{pdf: pdf, flatCost: flatCostUSD, timeout: timeout}
}

func (s *Structured) Name() string { return "structured" }

func (s *Structured) Method() model.Method { return model.MethodStructured }

// Extract parses the document text. A Document carrying pre-rendered Text
// skips the PDF step entirely.
func (s *Structured) Extract(ctx context.Context, doc cascade.Document) (*cascade.Attempt, error) {
	text := doc.Text
	if text == "" {
		tctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		var err error
		text, err = s.pdf.ExtractText(tctx, doc.Path)
		if err != nil {
			return nil, err
		}
	}

	return &cascade.Attempt{
		Record:  extract.FromText(text),
		CostUSD: s.flatCost,
	}, nil
}
