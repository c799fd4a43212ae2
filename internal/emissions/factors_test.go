package emissions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFactorFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFactors(t *testing.T) {
	path := writeFactorFile(t, `
version: "2024.1"
data_source: "EPA eGRID 2024"
gwp_reference: "IPCC AR5"
electricity:
  unit: "kg CO2e per kWh"
  factors:
    ARKANSAS: 0.732
    US_AVERAGE: 0.386
natural_gas:
  unit: "kg CO2e per therm"
  factors:
    US_AVERAGE: 5.31
`)

	table, err := LoadFactors(path)
	require.NoError(t, err)
	assert.Equal(t, "2024.1", table.Version)

	f, err := table.ElectricityFactor("ARKANSAS")
	require.NoError(t, err)
	assert.Equal(t, 0.732, f)
}

func TestLoadFactors_MissingProvenance(t *testing.T) {
	path := writeFactorFile(t, `
version: "2024.1"
electricity:
  factors:
    US_AVERAGE: 0.386
`)

	_, err := LoadFactors(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data_source")
}

func TestLoadFactors_FileMissing(t *testing.T) {
	_, err := LoadFactors("/nonexistent/factors.yaml")
	require.Error(t, err)
}

func TestLoadFactors_BadYAML(t *testing.T) {
	path := writeFactorFile(t, "electricity: [not: a: map")
	_, err := LoadFactors(path)
	require.Error(t, err)
}

func TestRegions_Sorted(t *testing.T) {
	regions := DefaultFactors().Regions()
	require.NotEmpty(t, regions)
	assert.IsNonDecreasing(t, regions)
	assert.Contains(t, regions, "ARKANSAS")
	assert.Contains(t, regions, "US_AVERAGE")
}
