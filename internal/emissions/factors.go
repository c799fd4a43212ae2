// Package emissions converts energy usage into CO2e mass with an audit
// trail suitable for compliance reporting.
package emissions

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FactorSet maps region identifiers to emission factors for one fuel.
type FactorSet struct {
	Unit    string             `yaml:"unit"`
	Factors map[string]float64 `yaml:"factors"`
}

// FactorTable is an emission-factor dataset with provenance metadata.
// Provenance fields are required: a factor with no citation is useless in
// an audited disclosure.
type FactorTable struct {
	Version      string    `yaml:"version"`
	DataSource   string    `yaml:"data_source"`
	GWPReference string    `yaml:"gwp_reference"`
	Electricity  FactorSet `yaml:"electricity"`
	NaturalGas   FactorSet `yaml:"natural_gas"`
}

// LoadFactors reads a factor table from a YAML file and checks the
// required provenance metadata is present.
func LoadFactors(path string) (*FactorTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "emissions: read factors %s", path)
	}

	var table FactorTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, eris.Wrapf(err, "emissions: parse factors %s", path)
	}

	for _, req := range []struct{ name, val string }{
		{"version", table.Version},
		{"data_source", table.DataSource},
		{"gwp_reference", table.GWPReference},
	} {
		if req.val == "" {
			return nil, eris.Errorf("emissions: factors file %s missing required key %q", path, req.name)
		}
	}

	return &table, nil
}

// ElectricityFactor returns the factor for a region. An unknown region is
// an explicit error listing what is available — never a silent fallback to
// a default region, because compliance provenance requires every factor to
// be deliberately chosen.
func (t *FactorTable) ElectricityFactor(region string) (float64, error) {
	f, ok := t.Electricity.Factors[region]
	if !ok {
		return 0, eris.Errorf("emissions: region %q not found in factor table (available: %v)", region, t.Regions())
	}
	return f, nil
}

// Regions lists the electricity regions in the table, sorted.
func (t *FactorTable) Regions() []string {
	regions := make([]string, 0, len(t.Electricity.Factors))
	for r := range t.Electricity.Factors {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// DefaultFactors returns a built-in eGRID-derived table so the calculator
// works without a factors file. Deployments should ship their own table
// with current-year factors.
func DefaultFactors() *FactorTable {
	return &FactorTable{
		Version:      "2024.1",
		DataSource:   "EPA eGRID 2024",
		GWPReference: "IPCC AR5",
		Electricity: FactorSet{
			Unit: "kg CO2e per kWh",
			Factors: map[string]float64{
				"US_AVERAGE": 0.386,
				"ARKANSAS":   0.732,
				"CALIFORNIA": 0.210,
				"NEW_YORK":   0.211,
				"TEXAS":      0.424,
				"WASHINGTON": 0.098,
			},
		},
		NaturalGas: FactorSet{
			Unit: "kg CO2e per therm",
			Factors: map[string]float64{
				"US_AVERAGE": 5.31,
			},
		},
	}
}
