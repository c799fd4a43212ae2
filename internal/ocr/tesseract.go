package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// rasterDPI is the resolution used when rasterizing pages. 300 DPI is the
// sweet spot for tesseract accuracy on utility-bill type layouts.
const rasterDPI = "300"

// Tesseract rasterizes PDF pages with pdftoppm and runs the tesseract CLI
// over each page image.
type Tesseract struct {
	pdftoppmPath  string
	tesseractPath string
}

// NewTesseract creates a Tesseract engine. Empty paths fall back to the
// binaries' usual names on PATH.
func NewTesseract(pdftoppmPath, tesseractPath string) *Tesseract {
	if pdftoppmPath == "" {
		pdftoppmPath = "pdftoppm"
	}
	if tesseractPath == "" {
		tesseractPath = "tesseract"
	}
	return &Tesseract{pdftoppmPath: pdftoppmPath, tesseractPath: tesseractPath}
}

// ExtractText converts each PDF page to a PNG and OCRs it, concatenating
// page texts in order.
func (t *Tesseract) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "esg-ocr-*")
	if err != nil {
		return "", eris.Wrap(err, "ocr: create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	raster := exec.CommandContext(ctx, t.pdftoppmPath, "-png", "-r", rasterDPI, pdfPath, prefix)
	var rasterErr bytes.Buffer
	raster.Stderr = &rasterErr
	if err := raster.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftoppm failed for %s: %s", pdfPath, rasterErr.String())
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", eris.Wrap(err, "ocr: glob page images")
	}
	if len(pages) == 0 {
		return "", eris.Errorf("ocr: pdftoppm produced no pages for %s", pdfPath)
	}
	sort.Strings(pages)

	zap.L().Debug("ocr: rasterized pages",
		zap.String("pdf", pdfPath),
		zap.Int("pages", len(pages)),
	)

	var sb strings.Builder
	for i, page := range pages {
		cmd := exec.CommandContext(ctx, t.tesseractPath, page, "stdout")
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return "", eris.Wrapf(err, "ocr: tesseract failed on page %d of %s: %s", i+1, pdfPath, stderr.String())
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(stdout.String())
	}

	return sb.String(), nil
}
