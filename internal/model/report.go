package model

import "time"

// ComplianceReport is a generated disclosure plus its audit trail.
// ValidationPassed is false only for hallucination-class errors (value
// absent or materially wrong); unit-mismatch and missing-section findings
// stay soft warnings.
type ComplianceReport struct {
	ReportText       string          `json:"report_text"`
	SourceData       EmissionsRecord `json:"source_data"`
	ValidationPassed bool            `json:"validation_passed"`
	Warnings         []string        `json:"warnings,omitempty"`
	GenerationCost   float64         `json:"generation_cost_usd"`
	GeneratedAt      time.Time       `json:"generated_at"`
	Model            string          `json:"model_used,omitempty"`
}
