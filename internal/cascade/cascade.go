// Package cascade runs extraction tiers in increasing-cost order, stopping
// at the first whose confidence clears the configured threshold.
package cascade

import (
	"context"

	"github.com/sells-group/esg-cli/internal/model"
)

// Document is one bill to extract. Either Path points at a PDF on disk, or
// Text carries an already-rendered text form (which lets callers feed raw
// text straight into the field extractors).
type Document struct {
	Path string
	Text string
}

// Attempt is the raw output of one tier: a record and what the tier cost.
// A tier may return a non-nil Attempt together with an error when real
// spend happened before the failure (a paid vision call that produced
// unusable output still belongs in the cost total).
type Attempt struct {
	Record  model.ExtractionRecord
	CostUSD float64
}

// Tier is one extraction strategy in the cascade.
type Tier interface {
	Name() string
	Method() model.Method
	Extract(ctx context.Context, doc Document) (*Attempt, error)
}

// Config tunes the cascade gate. The penalty constants are heuristics, not
// load-bearing: they are exposed here precisely so deployments can tune them.
type Config struct {
	ConfidenceThreshold float64
	PenaltyPerIssue     float64
	PenaltyCap          float64
}

// DefaultConfig returns the default cascade tuning.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.85,
		PenaltyPerIssue:     0.10,
		PenaltyCap:          0.30,
	}
}
