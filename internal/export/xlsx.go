// Package export writes batch-processing summaries to spreadsheet files.
package export

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/esg-cli/internal/model"
)

// BatchRow is one document's outcome in a batch summary.
type BatchRow struct {
	Document   string
	Extraction *model.ExtractionResult
	Emissions  *model.EmissionsRecord
	Error      string
}

var summaryHeader = []string{
	"Document", "Status", "Method", "Confidence",
	"Usage (kWh)", "Total Cost (USD)", "Region",
	"Emissions (kg CO2e)", "Emissions (MT CO2e)",
	"Processing Cost (USD)", "Warnings", "Error",
}

// WriteBatchSummary writes one row per document plus a totals row.
func WriteBatchSummary(path string, rows []BatchRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Batch Summary")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range summaryHeader {
		hr.AddCell().SetString(h)
	}

	var totalMT, totalCost float64
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Document)
		row.AddCell().SetString(rowStatus(r))

		if ex := r.Extraction; ex != nil {
			row.AddCell().SetString(string(ex.Method))
			row.AddCell().SetFloatWithFormat(ex.Confidence, "0.00")
			if ex.Record.UsageKWh != nil {
				row.AddCell().SetFloat(*ex.Record.UsageKWh)
			} else {
				row.AddCell()
			}
			if ex.Record.TotalCost != nil {
				row.AddCell().SetFloatWithFormat(*ex.Record.TotalCost, "0.00")
			} else {
				row.AddCell()
			}
			totalCost += ex.CostUSD
		} else {
			for i := 0; i < 4; i++ {
				row.AddCell()
			}
		}

		if em := r.Emissions; em != nil {
			row.AddCell().SetString(em.Region)
			row.AddCell().SetFloatWithFormat(em.EmissionsKg, "0.00")
			row.AddCell().SetFloatWithFormat(em.EmissionsMT, "0.000000")
			totalMT += em.EmissionsMT
		} else {
			for i := 0; i < 3; i++ {
				row.AddCell()
			}
		}

		if ex := r.Extraction; ex != nil {
			row.AddCell().SetFloatWithFormat(ex.CostUSD, "0.0000")
			row.AddCell().SetString(strings.Join(ex.Record.Warnings, "; "))
		} else {
			row.AddCell()
			row.AddCell()
		}
		row.AddCell().SetString(r.Error)
	}

	tr := sheet.AddRow()
	tr.AddCell().SetString("TOTAL")
	for i := 0; i < 7; i++ {
		tr.AddCell()
	}
	tr.AddCell().SetFloatWithFormat(totalMT, "0.000000")
	tr.AddCell().SetFloatWithFormat(totalCost, "0.0000")

	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

func rowStatus(r BatchRow) string {
	switch {
	case r.Error != "":
		return "failed"
	case r.Extraction != nil && r.Extraction.AllTiersFailed:
		return "low confidence"
	default:
		return "ok"
	}
}
