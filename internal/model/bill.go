package model

import "time"

// UsageUnit is the energy unit reported on a utility bill.
type UsageUnit string

const (
	UnitKWh     UsageUnit = "kWh"
	UnitMWh     UsageUnit = "MWh"
	UnitTherms  UsageUnit = "therms"
	UnitCCF     UsageUnit = "CCF"
	UnitUnknown UsageUnit = "unknown"
)

// Method identifies which extraction tier produced a record.
type Method string

const (
	MethodStructured Method = "structured"
	MethodOCR        Method = "ocr"
	MethodVision     Method = "vision"
)

// ExtractionRecord is one attempt to read a bill. Every field is
// independently optional; a record with nothing populated is still a valid
// value — completeness is the confidence scorer's concern, not an error.
type ExtractionRecord struct {
	AccountNumber    *string    `json:"account_number,omitempty"`
	ServiceStartDate *time.Time `json:"service_start_date,omitempty"`
	ServiceEndDate   *time.Time `json:"service_end_date,omitempty"`
	UsageAmount      *float64   `json:"usage_amount,omitempty"`
	UsageUnit        UsageUnit  `json:"usage_unit,omitempty"`
	TotalCost        *float64   `json:"total_cost,omitempty"`

	// Derived by normalization after extraction.
	UsageKWh       *float64 `json:"usage_kwh,omitempty"`
	RatePerKWh     *float64 `json:"calculated_rate_per_kwh,omitempty"`
	UnitConversion string   `json:"unit_conversion_applied,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// PopulatedFields returns which of the six primary fields carry a value,
// keyed by the field names the confidence weights use.
func (r *ExtractionRecord) PopulatedFields() map[string]bool {
	return map[string]bool{
		"account_number":     r.AccountNumber != nil,
		"service_start_date": r.ServiceStartDate != nil,
		"service_end_date":   r.ServiceEndDate != nil,
		"usage_amount":       r.UsageAmount != nil,
		"usage_unit":         r.UsageUnit != "" && r.UsageUnit != UnitUnknown,
		"total_cost":         r.TotalCost != nil,
	}
}

// ExtractionResult wraps a record with how it was obtained. CostUSD is
// cumulative across every tier attempted, not just the winning one.
type ExtractionResult struct {
	Record         ExtractionRecord `json:"record"`
	Method         Method           `json:"method"`
	Confidence     float64          `json:"confidence"`
	CostUSD        float64          `json:"cost_usd"`
	TiersAttempted []string         `json:"tiers_attempted"`
	Success        bool             `json:"success"`
	AllTiersFailed bool             `json:"all_tiers_failed,omitempty"`
}
