package extract

import (
	"fmt"

	"github.com/sells-group/esg-cli/internal/model"
)

// Consistency bounds for validation. These catch unit confusion and
// extraction noise that a completeness score cannot see.
const (
	maxBillingDays = 60
	minUnitPrice   = 0.01
	maxUnitPrice   = 5.00
	minUsageKWh    = 10
	maxUsageKWh    = 50000
)

// Validate checks internal consistency of a record, independent of
// completeness. Each issue is a warning string; validation never fails hard.
func Validate(rec *model.ExtractionRecord) []string {
	var issues []string

	if rec.ServiceStartDate != nil && rec.ServiceEndDate != nil {
		if !rec.ServiceEndDate.After(*rec.ServiceStartDate) {
			issues = append(issues, "end date must be after start date")
		} else {
			days := int(rec.ServiceEndDate.Sub(*rec.ServiceStartDate).Hours() / 24)
			if days > maxBillingDays {
				issues = append(issues, fmt.Sprintf("billing period of %d days is unusually long", days))
			}
		}
	}

	if rec.UsageAmount != nil && rec.TotalCost != nil && *rec.UsageAmount > 0 {
		unitPrice := *rec.TotalCost / *rec.UsageAmount
		if unitPrice > maxUnitPrice {
			issues = append(issues, fmt.Sprintf("unit price $%.2f/kWh is unusually high", unitPrice))
		} else if unitPrice < minUnitPrice {
			issues = append(issues, fmt.Sprintf("unit price $%.4f/kWh is unusually low", unitPrice))
		}
	}

	if rec.UsageAmount != nil {
		if *rec.UsageAmount < minUsageKWh {
			issues = append(issues, fmt.Sprintf("usage of %g kWh is unusually low", *rec.UsageAmount))
		} else if *rec.UsageAmount > maxUsageKWh {
			issues = append(issues, fmt.Sprintf("usage of %g kWh is unusually high", *rec.UsageAmount))
		}
	}

	return issues
}

// Penalty converts a validator issue count into a confidence deduction:
// perIssue for each finding, capped at cap. The constants are tunable
// defaults, exposed through cascade configuration.
func Penalty(issues int, perIssue, cap float64) float64 {
	p := float64(issues) * perIssue
	if p > cap {
		return cap
	}
	return p
}
