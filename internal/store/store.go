// Package store persists processing runs and cost ledger entries.
package store

import (
	"context"

	"github.com/sells-group/esg-cli/internal/cost"
	"github.com/sells-group/esg-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Document string          `json:"document,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the bill-processing pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, document string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Cost ledger
	AppendLedger(ctx context.Context, runID string, entries []cost.Entry) error
	LedgerTotal(ctx context.Context, runID string) (float64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
