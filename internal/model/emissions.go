package model

import "fmt"

// EmissionsRecord is the result of applying a region factor to a usage
// quantity. EmissionsKg holds the exact product; rounding happens only at
// display time (kg to 2 places, metric tons to 6).
type EmissionsRecord struct {
	InputValue  float64 `json:"input_value"`
	InputUnit   string  `json:"input_unit"`
	Region      string  `json:"region,omitempty"`
	Factor      float64 `json:"emission_factor"`
	EmissionsKg float64 `json:"emissions_kg_co2e"`
	EmissionsMT float64 `json:"emissions_mtco2e"`
	Formula     string  `json:"calculation_formula"`

	Metadata EmissionsMetadata `json:"metadata"`
	Audit    EmissionsAudit    `json:"audit"`
}

// EmissionsMetadata frames the calculation for compliance reporting.
type EmissionsMetadata struct {
	Scope           string `json:"scope"`
	Standard        string `json:"standard"`
	Boundary        string `json:"boundary"`
	ReportingPeriod string `json:"reporting_period"`
}

// EmissionsAudit records factor provenance so every number in a disclosure
// is traceable to an explicit source.
type EmissionsAudit struct {
	FactorUnit      string `json:"emission_factor_unit"`
	FactorSource    string `json:"emission_factor_source"`
	FactorsVersion  string `json:"factors_version"`
	GWPReference    string `json:"gwp_reference"`
	MethodologyNote string `json:"methodology_note"`
}

// DisplayKg returns the kg value rounded for display.
func (r *EmissionsRecord) DisplayKg() string {
	return fmt.Sprintf("%.2f", r.EmissionsKg)
}

// DisplayMT returns the metric-ton value rounded for display.
func (r *EmissionsRecord) DisplayMT() string {
	return fmt.Sprintf("%.6f", r.EmissionsMT)
}
