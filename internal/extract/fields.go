// Package extract pulls individual bill fields out of raw text. Each
// extractor works an ordered list of patterns and returns nil when nothing
// matches — a missing field is scored, not errored.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sells-group/esg-cli/internal/model"
)

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Account\s*#?\s*:?\s*([\d\-]+)`),
	regexp.MustCompile(`(?i)Acct\s*#?\s*:?\s*([\d\-]+)`),
	regexp.MustCompile(`(?i)Account\s+Number\s*:?\s*([\d\-]+)`),
}

// AccountNumber returns the first account-number match, or nil.
func AccountNumber(text string) *string {
	for _, p := range accountPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			v := strings.TrimSpace(m[1])
			if v != "" {
				return &v
			}
		}
	}
	return nil
}

var dateRangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Service\s+Period:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s*(?:[-–]|to)+\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(?i)Billing\s+from\s+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s*(?:[-–]|to)+\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\s*(?:[-–]|to)+\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
}

// dateFormats is the fixed trial order for candidate date strings. The first
// format that parses wins, so US month-first layouts take precedence.
var dateFormats = []string{
	"01/02/2006", "01/02/06",
	"01-02-2006", "01-02-06",
	"02/01/2006", "02/01/06",
}

// ServiceDates finds a pair of dates joined by a range separator near a
// service-period phrase. Returns (nil, nil) when no parseable pair is found.
func ServiceDates(text string) (*time.Time, *time.Time) {
	for _, p := range dateRangePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		start := parseFlexibleDate(m[1])
		end := parseFlexibleDate(m[2])
		if start != nil && end != nil {
			return start, end
		}
	}
	return nil, nil
}

func parseFlexibleDate(s string) *time.Time {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Usage plausibility bounds: candidates outside (min, max) kWh-equivalent
// are treated as extraction noise and skipped.
const (
	usageMin = 50
	usageMax = 10000
)

var (
	// Table rows where the trailing number is an already-subtracted usage
	// column (meter-reading tables).
	tableUsagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?im)\|\s*(\d+)\s*$`),
		regexp.MustCompile(`(?im)Reading.*?\|\s*(\d{2,4})\s*$`),
		regexp.MustCompile(`(?im)\|\s*\d+\s*\|\s*\d+\s*\|\s*(\d{2,4})\s*$`),
	}

	billedUsagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Billed\s+Usage[^\d]*(\d+)\s*kWh`),
		regexp.MustCompile(`(?is)Usage\s*\|\s*(\d+)\s*\|`),
		regexp.MustCompile(`(?is)\|\s*(\d+)\s*kWh\s*\|`),
	}

	// Previous/current meter reading label variants, tried as pairs.
	meterPatterns = []struct{ prev, curr *regexp.Regexp }{
		{
			regexp.MustCompile(`(?i)Previous\s+Reading[:\s]+(\d+)`),
			regexp.MustCompile(`(?i)(?:Present|Current)\s+Reading[:\s]+(\d+)`),
		},
		{
			regexp.MustCompile(`(?i)Prev(?:ious)?\s+Read[:\s]+(\d+)`),
			regexp.MustCompile(`(?i)(?:Current|Present)\s+Read[:\s]+(\d+)`),
		},
		{
			regexp.MustCompile(`(?i)Previous[:\s]+(\d+)`),
			regexp.MustCompile(`(?i)Current[:\s]+(\d+)`),
		},
	}

	currentUsagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Current\s+(?:bill\s+)?[Uu]sage[:\s]+(\d+\.?\d*)\s*kWh`),
		regexp.MustCompile(`(?i)Billed\s+[Uu]sage[:\s]+(\d+\.?\d*)\s*kWh`),
		regexp.MustCompile(`(?i)Usage\s+for\s+this\s+period[:\s]+(\d+\.?\d*)\s*kWh`),
		regexp.MustCompile(`(?i)This\s+period[:\s]+(\d+\.?\d*)\s*kWh`),
		regexp.MustCompile(`(?i)Usage:\s*(\d+)\s*kWh`),
	}

	averageLinePattern = regexp.MustCompile(`(?i)\b(avg|average|typical|historical|past\s+\d+\s+months)\b`)
	kwhValuePattern    = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*kWh`)
)

// Usage locates the current-period usage value, in strict priority order:
// usage columns in meter tables, explicit billed-usage cells, the
// previous/current meter-reading subtraction, current-period labels, a
// line-by-line scan that skips average/historical decoys, and finally any
// kWh-shaped number. Many bills never state usage directly — only the two
// meter readings — so the subtraction step does the arithmetic itself
// rather than reporting either raw reading.
func Usage(text string) *float64 {
	for _, p := range tableUsagePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if v, ok := plausibleUsage(m[1]); ok {
				return &v
			}
		}
	}

	for _, p := range billedUsagePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, ok := plausibleUsage(m[1]); ok {
				return &v
			}
		}
	}

	for _, pair := range meterPatterns {
		prev := pair.prev.FindStringSubmatch(text)
		curr := pair.curr.FindStringSubmatch(text)
		if prev == nil || curr == nil {
			continue
		}
		p, errP := strconv.Atoi(prev[1])
		c, errC := strconv.Atoi(curr[1])
		if errP != nil || errC != nil {
			continue
		}
		usage := float64(c - p)
		if usage > usageMin && usage < usageMax {
			return &usage
		}
	}

	for _, p := range currentUsagePatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, ok := plausibleUsage(m[1]); ok {
				return &v
			}
		}
	}

	// Line scan, skipping 12-month-average style decoys.
	for _, line := range strings.Split(text, "\n") {
		if averageLinePattern.MatchString(line) {
			continue
		}
		if m := kwhValuePattern.FindStringSubmatch(line); m != nil {
			if v, ok := plausibleUsage(m[1]); ok {
				return &v
			}
		}
	}

	if m := kwhValuePattern.FindStringSubmatch(text); m != nil {
		if v, ok := plausibleUsage(m[1]); ok {
			return &v
		}
	}

	return nil
}

func plausibleUsage(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v <= usageMin || v >= usageMax {
		return 0, false
	}
	return v, true
}

// UsageUnit checks for unit keywords, defaulting to kWh when ambiguous.
func UsageUnit(text string) model.UsageUnit {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "kwh"):
		return model.UnitKWh
	case strings.Contains(lower, "mwh"):
		return model.UnitMWh
	case strings.Contains(lower, "therm"):
		return model.UnitTherms
	case strings.Contains(lower, "ccf"):
		return model.UnitCCF
	}
	return model.UnitKWh
}

var costPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Total\s+Amount\s+Due[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)Amount\s+Due[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)Balance\s+Due[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)Total\s+Charges[:\s]+\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)Current\s+Charges[:\s]+\$?\s*([\d,]+\.?\d*)`),
}

const (
	costMin = 10
	costMax = 10000
)

// TotalCost finds the amount due. Values outside the residential-bill
// plausibility band are rejected as noise.
func TotalCost(text string) *float64 {
	for _, p := range costPatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if v > costMin && v < costMax {
			return &v
		}
	}
	return nil
}

// FromText runs every field extractor over a text rendering of a bill and
// assembles the raw record. Normalization and validation are separate steps
// applied by the cascade.
func FromText(text string) model.ExtractionRecord {
	start, end := ServiceDates(text)
	return model.ExtractionRecord{
		AccountNumber:    AccountNumber(text),
		ServiceStartDate: start,
		ServiceEndDate:   end,
		UsageAmount:      Usage(text),
		UsageUnit:        UsageUnit(text),
		TotalCost:        TotalCost(text),
	}
}
