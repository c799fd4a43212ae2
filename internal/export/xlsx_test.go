package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/esg-cli/internal/emissions"
	"github.com/sells-group/esg-cli/internal/model"
)

func TestWriteBatchSummary(t *testing.T) {
	usage := 850.0
	cost := 127.50
	em, err := emissions.Electricity(usage, "ARKANSAS", emissions.DefaultFactors(), "November 2024")
	require.NoError(t, err)

	rows := []BatchRow{
		{
			Document: "bills/a.pdf",
			Extraction: &model.ExtractionResult{
				Method:     model.MethodStructured,
				Confidence: 0.95,
				CostUSD:    0.0001,
				Success:    true,
				Record: model.ExtractionRecord{
					UsageKWh:  &usage,
					TotalCost: &cost,
				},
			},
			Emissions: em,
		},
		{
			Document: "bills/b.pdf",
			Error:    "cascade: all 3 tiers failed",
		},
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteBatchSummary(path, rows))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	sheet := f.Sheets[0]
	assert.Equal(t, "Batch Summary", sheet.Name)

	// Header + two documents + totals row.
	require.Len(t, sheet.Rows, 4)
	assert.Equal(t, "Document", sheet.Rows[0].Cells[0].String())

	okRow := sheet.Rows[1]
	assert.Equal(t, "bills/a.pdf", okRow.Cells[0].String())
	assert.Equal(t, "ok", okRow.Cells[1].String())
	assert.Equal(t, "structured", okRow.Cells[2].String())

	mt, err := okRow.Cells[8].Float()
	require.NoError(t, err)
	assert.InDelta(t, 0.6222, mt, 1e-6)

	failRow := sheet.Rows[2]
	assert.Equal(t, "failed", failRow.Cells[1].String())
	assert.Contains(t, failRow.Cells[11].String(), "all 3 tiers failed")

	totals := sheet.Rows[3]
	assert.Equal(t, "TOTAL", totals.Cells[0].String())
}

func TestWriteBatchSummary_LowConfidenceStatus(t *testing.T) {
	rows := []BatchRow{
		{
			Document: "bills/hard.pdf",
			Extraction: &model.ExtractionResult{
				Method:         model.MethodVision,
				Confidence:     0.40,
				AllTiersFailed: true,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, WriteBatchSummary(path, rows))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "low confidence", f.Sheets[0].Rows[1].Cells[1].String())
}
