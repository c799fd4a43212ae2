package extract

import (
	"fmt"
	"math"
	"time"

	"github.com/sells-group/esg-cli/internal/model"
)

// Rate sanity band applied after normalization. Wider than the validator's
// unit-price band; this one annotates, the validator penalizes.
const (
	minRatePerKWh = 0.03
	maxRatePerKWh = 0.60
)

// Normalize enriches a record with derived fields: kWh-normalized usage,
// the implied $/kWh rate, and per-field warnings. Every tier's output goes
// through the same normalization regardless of how it was extracted.
func Normalize(rec *model.ExtractionRecord) {
	if rec.UsageAmount != nil {
		switch rec.UsageUnit {
		case model.UnitMWh:
			kwh := *rec.UsageAmount * 1000
			rec.UsageKWh = &kwh
			rec.UnitConversion = "MWh to kWh (x1000)"
		case model.UnitKWh:
			kwh := *rec.UsageAmount
			rec.UsageKWh = &kwh
			rec.UnitConversion = "none (already kWh)"
		case model.UnitTherms, model.UnitCCF:
			// Natural gas volumes stay in their own unit; the emissions
			// calculator has a dedicated therms path.
			rec.UnitConversion = "none (natural gas)"
		default:
			kwh := *rec.UsageAmount
			rec.UsageKWh = &kwh
			rec.UnitConversion = fmt.Sprintf("assumed kWh (unit: %s)", rec.UsageUnit)
		}
	}

	for _, d := range []struct {
		name string
		date *time.Time
	}{
		{"service_start_date", rec.ServiceStartDate},
		{"service_end_date", rec.ServiceEndDate},
	} {
		if d.date == nil {
			continue
		}
		year := d.date.Year()
		if year < 1990 || year > time.Now().Year()+1 {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s: unusual year %d", d.name, year))
		}
	}

	if rec.TotalCost != nil && rec.UsageKWh != nil && *rec.UsageKWh > 0 {
		rate := math.Round(*rec.TotalCost / *rec.UsageKWh * 1e4) / 1e4
		rec.RatePerKWh = &rate
		if rate < minRatePerKWh || rate > maxRatePerKWh {
			rec.Warnings = append(rec.Warnings, fmt.Sprintf(
				"unusual rate $%.4f/kWh, typical range $0.05-0.50/kWh, verify extraction", rate))
		}
	}
}
