package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/esg-cli/internal/cascade"
	"github.com/sells-group/esg-cli/internal/cascade/tier"
	"github.com/sells-group/esg-cli/internal/cost"
	"github.com/sells-group/esg-cli/internal/emissions"
	"github.com/sells-group/esg-cli/internal/model"
	"github.com/sells-group/esg-cli/internal/ocr"
	"github.com/sells-group/esg-cli/internal/store"
	anthropicpkg "github.com/sells-group/esg-cli/pkg/anthropic"
)

// initStore opens the configured SQLite store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// apiLimiter builds the shared client-side rate limiter for Anthropic calls.
func apiLimiter() *rate.Limiter {
	rpm := cfg.Anthropic.RequestsPerMinute
	if rpm <= 0 {
		rpm = 50
	}
	return rate.NewLimiter(rate.Limit(rpm/60.0), 1)
}

// rateCard builds the pricing calculator, with config overriding the
// default flat tier rates.
func rateCard() *cost.Calculator {
	rates := cost.DefaultRates()
	if cfg.Pricing.TierStructuredUSD > 0 {
		rates.Tiers["structured"] = cfg.Pricing.TierStructuredUSD
	}
	if cfg.Pricing.TierOCRUSD > 0 {
		rates.Tiers["ocr"] = cfg.Pricing.TierOCRUSD
	}
	return cost.NewCalculator(rates)
}

// buildExecutor assembles the tier cascade from config. Tiers are
// registered cheapest first. The vision tier is skipped when no API key is
// configured; the cascade still runs on the local tiers.
func buildExecutor(threshold float64, enableOCR, enableVision bool, limiter *rate.Limiter) (*cascade.Executor, error) {
	ocrTimeout := time.Duration(cfg.OCR.TimeoutSecs) * time.Second
	calc := rateCard()

	pdf := ocr.NewPdfToText(cfg.OCR.PdfToTextPath)
	tiers := []cascade.Tier{
		tier.NewStructured(pdf, calc.TierFlat("structured"), ocrTimeout),
	}

	if enableOCR {
		engine, err := ocr.NewEngine(cfg.OCR)
		if err != nil {
			return nil, eris.Wrap(err, "init ocr engine")
		}
		tiers = append(tiers, tier.NewOCR(engine, calc.TierFlat("ocr"), ocrTimeout))
	}

	if enableVision {
		if cfg.Anthropic.Key == "" {
			zap.L().Warn("vision tier disabled: no anthropic api key configured")
		} else {
			client := anthropicpkg.NewClient(cfg.Anthropic.Key)
			tiers = append(tiers, tier.NewVision(client, cfg.Anthropic.VisionModel, 0, limiter))
		}
	}

	cc := cascade.Config{
		ConfidenceThreshold: threshold,
		PenaltyPerIssue:     cfg.Extraction.PenaltyPerIssue,
		PenaltyCap:          cfg.Extraction.PenaltyCap,
	}
	return cascade.NewExecutor(cc, tiers), nil
}

// loadFactorTable reads a factor file, falling back to the built-in table
// when no file exists at the resolved path. An empty override uses the
// configured path.
func loadFactorTable(override string) (*emissions.FactorTable, error) {
	path := override
	if path == "" {
		path = cfg.Factors.Path
	}
	if path == "" {
		return emissions.DefaultFactors(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if override != "" {
			return nil, eris.Errorf("factors file %s not found", override)
		}
		zap.L().Debug("factor file not found, using built-in table", zap.String("path", path))
		return emissions.DefaultFactors(), nil
	}
	return emissions.LoadFactors(path)
}

// reportingPeriod renders the service window for disclosure metadata.
func reportingPeriod(rec *model.ExtractionRecord) string {
	if rec.ServiceStartDate == nil || rec.ServiceEndDate == nil {
		return ""
	}
	return fmt.Sprintf("%s to %s",
		rec.ServiceStartDate.Format("2006-01-02"),
		rec.ServiceEndDate.Format("2006-01-02"))
}

// processDocument runs the cascade over one document and calculates
// emissions when a region is set. Every cost lands in ledger, including
// spend from failed paid tier attempts.
func processDocument(ctx context.Context, exec *cascade.Executor, factors *emissions.FactorTable, docPath, region string, ledger *cost.Ledger) (*model.RunResult, error) {
	result := &model.RunResult{}

	ex, err := exec.Run(ctx, cascade.Document{Path: docPath})
	if ex != nil {
		ledger.Add("extract:"+string(ex.Method), ex.CostUSD)
	}
	if err != nil {
		return nil, err
	}
	result.Extraction = ex
	result.Warnings = append(result.Warnings, ex.Record.Warnings...)

	if region != "" && ex.Record.UsageKWh != nil {
		em, err := emissions.Electricity(*ex.Record.UsageKWh, region, factors, reportingPeriod(&ex.Record))
		if err != nil {
			return nil, err
		}
		result.Emissions = em
	}

	result.TotalCostUSD = ledger.Total()
	return result, nil
}
