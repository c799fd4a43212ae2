// Package ocr turns PDF documents into text, either by reading the embedded
// text layer or by rasterizing pages and running optical character
// recognition.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-cli/internal/config"
)

// Engine extracts text content from PDF files.
type Engine interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewEngine creates the OCR engine named by config. This is the tier-2
// extractor's text source; the structured tier always uses PdfToText.
func NewEngine(cfg config.OCRConfig) (Engine, error) {
	switch cfg.Provider {
	case "tesseract", "":
		return NewTesseract(cfg.PdfToPpmPath, cfg.TesseractPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
