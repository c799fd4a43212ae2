package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPopulatedFields(t *testing.T) {
	acct := "123-456"
	usage := 850.0
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	r := &ExtractionRecord{
		AccountNumber:    &acct,
		ServiceStartDate: &start,
		UsageAmount:      &usage,
		UsageUnit:        UnitKWh,
	}

	pop := r.PopulatedFields()
	assert.True(t, pop["account_number"])
	assert.True(t, pop["service_start_date"])
	assert.False(t, pop["service_end_date"])
	assert.True(t, pop["usage_amount"])
	assert.True(t, pop["usage_unit"])
	assert.False(t, pop["total_cost"])
}

func TestPopulatedFields_UnknownUnitDoesNotCount(t *testing.T) {
	r := &ExtractionRecord{UsageUnit: UnitUnknown}
	assert.False(t, r.PopulatedFields()["usage_unit"])

	r = &ExtractionRecord{}
	assert.False(t, r.PopulatedFields()["usage_unit"])
}
