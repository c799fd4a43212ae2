package model

import "time"

// RunStatus represents the current state of a bill-processing run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run is a single processed document, as persisted by the store.
type Run struct {
	ID        string     `json:"id"`
	Document  string     `json:"document"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Extraction   *ExtractionResult `json:"extraction,omitempty"`
	Emissions    *EmissionsRecord  `json:"emissions,omitempty"`
	ReportPassed *bool             `json:"report_passed,omitempty"`
	TotalCostUSD float64           `json:"total_cost_usd"`
	Warnings     []string          `json:"warnings,omitempty"`
	Error        string            `json:"error,omitempty"`
}
