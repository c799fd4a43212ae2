package emissions

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-cli/internal/model"
)

const (
	scope2           = "Scope 2 (Location-based)"
	scope1           = "Scope 1 (Direct)"
	ghgStandard      = "GHG Protocol Corporate Standard"
	orgBoundary      = "Organizational"
	electricityNote  = "Location-based method using grid-average emission factors. Market-based method would require contractual instrument tracking."
	naturalGasNote   = "Direct combustion emission factor for natural gas. Includes CO2, CH4, and N2O in CO2e using AR5 GWPs."
	unspecifiedLabel = "Not specified"
)

// Electricity calculates Scope 2 CO2e from electricity usage.
//
// The stored EmissionsKg is the exact product of usage and factor; display
// rounding happens only at the formatting layer. The returned record carries
// the full audit block so every number in a downstream disclosure traces to
// an explicit source.
func Electricity(kwh float64, region string, table *FactorTable, reportingPeriod string) (*model.EmissionsRecord, error) {
	if kwh < 0 {
		return nil, eris.Errorf("emissions: kWh cannot be negative, got %g", kwh)
	}

	factor, err := table.ElectricityFactor(region)
	if err != nil {
		return nil, err
	}

	kg := kwh * factor
	mt := kg / 1000

	if reportingPeriod == "" {
		reportingPeriod = unspecifiedLabel
	}

	return &model.EmissionsRecord{
		InputValue:  kwh,
		InputUnit:   "kWh",
		Region:      region,
		Factor:      factor,
		EmissionsKg: kg,
		EmissionsMT: mt,
		Formula: fmt.Sprintf("%.2f kWh × %g kg CO2e/kWh = %.2f kg CO2e = %.6f metric tons CO2e",
			kwh, factor, kg, mt),
		Metadata: model.EmissionsMetadata{
			Scope:           scope2,
			Standard:        ghgStandard,
			Boundary:        orgBoundary,
			ReportingPeriod: reportingPeriod,
		},
		Audit: model.EmissionsAudit{
			FactorUnit:      table.Electricity.Unit,
			FactorSource:    table.DataSource,
			FactorsVersion:  table.Version,
			GWPReference:    table.GWPReference,
			MethodologyNote: electricityNote,
		},
	}, nil
}

// NaturalGas calculates Scope 1 CO2e from natural gas combustion, in therms.
func NaturalGas(therms float64, table *FactorTable, reportingPeriod string) (*model.EmissionsRecord, error) {
	if therms < 0 {
		return nil, eris.Errorf("emissions: therms cannot be negative, got %g", therms)
	}

	factor, ok := table.NaturalGas.Factors["US_AVERAGE"]
	if !ok {
		return nil, eris.New("emissions: natural gas factor not found in table")
	}

	kg := therms * factor
	mt := kg / 1000

	if reportingPeriod == "" {
		reportingPeriod = unspecifiedLabel
	}

	return &model.EmissionsRecord{
		InputValue:  therms,
		InputUnit:   "therms",
		Factor:      factor,
		EmissionsKg: kg,
		EmissionsMT: mt,
		Formula: fmt.Sprintf("%.2f therms × %g kg CO2e/therm = %.2f kg CO2e = %.6f metric tons CO2e",
			therms, factor, kg, mt),
		Metadata: model.EmissionsMetadata{
			Scope:           scope1,
			Standard:        ghgStandard,
			Boundary:        orgBoundary,
			ReportingPeriod: reportingPeriod,
		},
		Audit: model.EmissionsAudit{
			FactorUnit:      table.NaturalGas.Unit,
			FactorSource:    table.DataSource,
			FactorsVersion:  table.Version,
			GWPReference:    table.GWPReference,
			MethodologyNote: naturalGasNote,
		},
	}, nil
}

// Sum aggregates multiple records by summing metric tons. It never
// re-derives from summed usage: the bills may span regions with different
// factors.
func Sum(records []*model.EmissionsRecord) float64 {
	total := 0.0
	for _, r := range records {
		total += r.EmissionsMT
	}
	return total
}
