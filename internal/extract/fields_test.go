package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-cli/internal/model"
)

func TestAccountNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled", "Account #: 962-642-734-1-6\nAmount Due: $46.84", "962-642-734-1-6"},
		{"acct abbrev", "Acct # 12345678", "12345678"},
		{"account number phrase", "Account Number: 555-0001", "555-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccountNumber(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, AccountNumber("no identifiers here"))
}

func TestServiceDates(t *testing.T) {
	start, end := ServiceDates("Service Period: 11/01/2024 - 11/30/2024")
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC), *end)

	start, end = ServiceDates("Billing from 01/05/25 to 02/04/25")
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, time.February, end.Month())

	start, end = ServiceDates("no dates at all")
	assert.Nil(t, start)
	assert.Nil(t, end)
}

func TestUsage_MeterReadingSubtraction(t *testing.T) {
	text := `Meter 48213
Previous Reading: 12258
Present Reading: 12512
Amount Due: $46.84`

	got := Usage(text)
	require.NotNil(t, got)
	assert.Equal(t, 254.0, *got)
}

func TestUsage_MeterSubtraction_ImplausibleSkipped(t *testing.T) {
	// Difference of 12 is below the plausibility floor; no other usage
	// value exists, so extraction yields nothing rather than a reading.
	text := "Previous Reading: 12500\nCurrent Reading: 12512"
	assert.Nil(t, Usage(text))
}

func TestUsage_SkipsAverageDecoy(t *testing.T) {
	text := `Your avg usage past 12 months 1100 kWh
Current usage: 850 kWh
Amount Due: $127.50`

	got := Usage(text)
	require.NotNil(t, got)
	assert.Equal(t, 850.0, *got, "must pick the current period, not the historical average")
}

func TestUsage_TableColumn(t *testing.T) {
	text := `| Service Description | Previous Reading | Present Reading | Usage |
| 12345 MAIN ST | 12258 | 12512 | 254`

	got := Usage(text)
	require.NotNil(t, got)
	assert.Equal(t, 254.0, *got)
}

func TestUsage_DirectLabel(t *testing.T) {
	got := Usage("Usage: 282 kWh")
	require.NotNil(t, got)
	assert.Equal(t, 282.0, *got)
}

func TestUsage_LastResortAnyKWh(t *testing.T) {
	got := Usage("you consumed 431 kWh this cycle")
	require.NotNil(t, got)
	assert.Equal(t, 431.0, *got)
}

func TestUsage_NothingFound(t *testing.T) {
	assert.Nil(t, Usage("Amount Due: $46.84"))
}

func TestUsageUnit(t *testing.T) {
	tests := []struct {
		text string
		want model.UsageUnit
	}{
		{"Usage: 850 kWh", model.UnitKWh},
		{"consumption 1.2 MWh", model.UnitMWh},
		{"34 therms billed", model.UnitTherms},
		{"12 CCF natural gas", model.UnitCCF},
		{"no unit anywhere", model.UnitKWh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UsageUnit(tt.text), tt.text)
	}
}

func TestTotalCost(t *testing.T) {
	got := TotalCost("Total Amount Due: $127.50")
	require.NotNil(t, got)
	assert.Equal(t, 127.50, *got)

	got = TotalCost("Balance Due: 1,234.56")
	require.NotNil(t, got)
	assert.Equal(t, 1234.56, *got)

	// Outside the plausibility band.
	assert.Nil(t, TotalCost("Amount Due: $2.50"))
	assert.Nil(t, TotalCost("Amount Due: $150000.00"))
	assert.Nil(t, TotalCost("nothing to pay"))
}

func TestFromText_CompleteBill(t *testing.T) {
	text := `Account: 962-642-734-1-6
Service Period: 11/05/2025 - 12/05/2025
Usage: 282 kWh
Amount Due: $46.84`

	rec := FromText(text)
	require.NotNil(t, rec.AccountNumber)
	assert.Equal(t, "962-642-734-1-6", *rec.AccountNumber)
	require.NotNil(t, rec.UsageAmount)
	assert.Equal(t, 282.0, *rec.UsageAmount)
	assert.Equal(t, model.UnitKWh, rec.UsageUnit)
	require.NotNil(t, rec.TotalCost)
	assert.Equal(t, 46.84, *rec.TotalCost)
	require.NotNil(t, rec.ServiceStartDate)
	require.NotNil(t, rec.ServiceEndDate)
}

func TestFromText_EmptyBill(t *testing.T) {
	rec := FromText("completely unrelated text")
	assert.Nil(t, rec.AccountNumber)
	assert.Nil(t, rec.UsageAmount)
	assert.Nil(t, rec.TotalCost)
	assert.Nil(t, rec.ServiceStartDate)
	assert.Nil(t, rec.ServiceEndDate)
}
