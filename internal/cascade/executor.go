package cascade

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/extract"
	"github.com/sells-group/esg-cli/internal/model"
)

// Executor walks tiers in registration order. Tiers must be registered
// cheapest first; the executor never reorders them.
type Executor struct {
	cfg   Config
	tiers []Tier
}

// NewExecutor creates a cascade executor over the given tiers.
func NewExecutor(cfg Config, tiers []Tier) *Executor {
	return &Executor{cfg: cfg, tiers: tiers}
}

// Run drives the cascade for one document.
//
// Each tier either fails outright (logged, cascade advances) or yields a
// record. The record is normalized and validated identically regardless of
// tier, its completeness confidence is penalized for validator issues, and
// the first tier clearing the threshold wins — later tiers are never
// invoked. If no tier clears the bar, the best candidate by confidence is
// returned tagged AllTiersFailed so callers can decide whether a
// best-effort result is acceptable. Cost accumulates across every tier
// attempted, including failed ones.
func (e *Executor) Run(ctx context.Context, doc Document) (*model.ExtractionResult, error) {
	var (
		attempted []string
		totalCost float64
		fallback  *model.ExtractionResult
	)

	for _, tier := range e.tiers {
		attempted = append(attempted, tier.Name())

		att, err := tier.Extract(ctx, doc)
		if att != nil {
			totalCost += att.CostUSD
		}
		if err != nil {
			zap.L().Warn("cascade: tier failed, advancing",
				zap.String("tier", tier.Name()),
				zap.String("document", doc.Path),
				zap.Error(err),
			)
			continue
		}

		rec := att.Record
		extract.Normalize(&rec)
		issues := extract.Validate(&rec)
		rec.Warnings = append(rec.Warnings, issues...)

		confidence := extract.Confidence(&rec)
		if len(issues) > 0 {
			penalty := extract.Penalty(len(issues), e.cfg.PenaltyPerIssue, e.cfg.PenaltyCap)
			zap.L().Info("cascade: validator penalty applied",
				zap.String("tier", tier.Name()),
				zap.Int("issues", len(issues)),
				zap.Float64("penalty", penalty),
				zap.Float64("confidence_before", confidence),
			)
			confidence -= penalty
			if confidence < 0 {
				confidence = 0
			}
		}

		result := &model.ExtractionResult{
			Record:     rec,
			Method:     tier.Method(),
			Confidence: confidence,
		}

		if confidence >= e.cfg.ConfidenceThreshold {
			result.Success = true
			result.CostUSD = totalCost
			result.TiersAttempted = slices.Clone(attempted)
			zap.L().Info("cascade: tier accepted",
				zap.String("tier", tier.Name()),
				zap.Float64("confidence", confidence),
				zap.Float64("total_cost_usd", totalCost),
			)
			return result, nil
		}

		zap.L().Info("cascade: confidence below threshold, advancing",
			zap.String("tier", tier.Name()),
			zap.Float64("confidence", confidence),
			zap.Float64("threshold", e.cfg.ConfidenceThreshold),
		)

		if fallback == nil || confidence > fallback.Confidence {
			fallback = result
		}
	}

	if fallback == nil {
		return nil, eris.Errorf("cascade: all %d tiers failed for %q", len(attempted), doc.Path)
	}

	// Best fallback by confidence, not the last one attempted.
	fallback.AllTiersFailed = true
	fallback.CostUSD = totalCost
	fallback.TiersAttempted = attempted
	zap.L().Warn("cascade: no tier cleared threshold, returning best fallback",
		zap.String("method", string(fallback.Method)),
		zap.Float64("confidence", fallback.Confidence),
		zap.Float64("total_cost_usd", totalCost),
	)
	return fallback, nil
}
