package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/esg-cli/internal/model"
)

func str(s string) *string      { return &s }
func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestConfidence_FullRecord(t *testing.T) {
	rec := model.ExtractionRecord{
		AccountNumber:    str("123"),
		ServiceStartDate: date(2024, 11, 1),
		ServiceEndDate:   date(2024, 11, 30),
		UsageAmount:      f64(850),
		UsageUnit:        model.UnitKWh,
		TotalCost:        f64(127.50),
	}
	assert.InDelta(t, 1.0, Confidence(&rec), 1e-9)
}

func TestConfidence_EmptyRecord(t *testing.T) {
	rec := model.ExtractionRecord{}
	assert.Zero(t, Confidence(&rec))
}

func TestConfidence_UsageDominates(t *testing.T) {
	usageOnly := model.ExtractionRecord{
		UsageAmount: f64(850),
	}
	costOnly := model.ExtractionRecord{
		TotalCost: f64(127.50),
	}
	assert.InDelta(t, 0.35, Confidence(&usageOnly), 1e-9)
	assert.InDelta(t, 0.15, Confidence(&costOnly), 1e-9)
}

func TestConfidence_UnknownUnitNotCounted(t *testing.T) {
	rec := model.ExtractionRecord{
		UsageAmount: f64(850),
		UsageUnit:   model.UnitUnknown,
	}
	assert.InDelta(t, 0.35, Confidence(&rec), 1e-9)

	rec.UsageUnit = model.UnitKWh
	assert.InDelta(t, 0.40, Confidence(&rec), 1e-9)
}
