// Package report generates GRI 305 disclosures and verifies that the
// generated prose actually states the numbers it was given.
package report

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// emissionKeywords anchor the proximity search: a number only counts as
// "the emissions value" when it sits next to one of these. This stops an
// account number that happens to equal the expected value from passing
// verification.
var emissionKeywords = []string{
	`emissions?`,
	`co2e?`,
	`metric\s+tons?`,
	`mtco2e`,
	`carbon`,
	`greenhouse\s+gas`,
	`ghg`,
}

var (
	proximityPatterns = buildProximityPatterns()
	anyNumberPattern  = regexp.MustCompile(`\d+\.?\d*`)
)

func buildProximityPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(emissionKeywords)*2)
	for _, kw := range emissionKeywords {
		// keyword followed by number, then number followed by keyword
		patterns = append(patterns, regexp.MustCompile(`(?i)`+kw+`[:\s]+(\d+\.?\d*)`))
		patterns = append(patterns, regexp.MustCompile(`(?i)(\d+\.?\d*)\s+`+kw))
	}
	return patterns
}

// UnitVariant describes a unit whose multiple of the expected metric-ton
// value indicates a conversion mistake rather than a hallucination.
type UnitVariant struct {
	Multiplier float64
	Short      string
	Long       string
}

// DefaultUnitVariants covers the conversions seen in practice. The list is
// a parameter, not a constant: other unit systems swap in their own.
var DefaultUnitVariants = []UnitVariant{
	{Multiplier: 1000, Short: "kg", Long: "kilograms"},
	{Multiplier: 2204.62, Short: "lb", Long: "pounds"},
	{Multiplier: 1e6, Short: "g", Long: "grams"},
}

// VerifyAccuracy checks that reportText states expectedMT (metric tons
// CO2e) within tolerancePercent. It returns whether the report is accurate
// and, when something is off, a warning describing exactly what: a
// unit-conversion error is flagged distinctly from a hallucinated value,
// and a within-tolerance near-match produces an informational note without
// failing verification.
func VerifyAccuracy(reportText string, expectedMT, tolerancePercent float64, variants []UnitVariant) (bool, string) {
	found := findCandidateValues(reportText)
	if len(found) == 0 {
		return false, "no numeric values found in report"
	}

	band := math.Abs(expectedMT * tolerancePercent / 100)

	var matches []float64
	for _, v := range found {
		if v >= expectedMT-band && v <= expectedMT+band {
			matches = append(matches, v)
		}
	}

	if len(matches) > 0 {
		closest := closestTo(matches, expectedMT)
		deviation := deviationPercent(closest, expectedMT)
		if deviation < 1e-9 {
			return true, ""
		}
		return true, fmt.Sprintf("report value %g differs by %.3f%% from source %g", closest, deviation, expectedMT)
	}

	// No in-band value. Before calling it a hallucination, check whether
	// the report states the value in the wrong unit — a distinct and very
	// common failure mode worth surfacing by name.
	for _, uv := range variants {
		variantValue := expectedMT * uv.Multiplier
		variantBand := math.Abs(variantValue * tolerancePercent / 100)
		for _, v := range found {
			if math.Abs(v-variantValue) <= variantBand {
				return false, fmt.Sprintf(
					"UNIT ERROR: report contains %.2f (likely %s), but source data is %g metric tons CO2e; this is a %s-to-metric-tons conversion error",
					variantValue, uv.Short, expectedMT, uv.Short)
			}
		}
	}

	closest := closestTo(found, expectedMT)
	deviation := deviationPercent(closest, expectedMT)
	return false, fmt.Sprintf(
		"HALLUCINATION DETECTED: expected %g metric tons CO2e, but report contains %g (deviation: %.1f%%)",
		expectedMT, closest, deviation)
}

// findCandidateValues collects keyword-adjacent numbers, falling back to
// every number in the text when no keyword-adjacent value exists.
func findCandidateValues(text string) []float64 {
	var values []float64
	for _, p := range proximityPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				values = append(values, v)
			}
		}
	}
	if len(values) > 0 {
		return values
	}
	for _, m := range anyNumberPattern.FindAllString(text, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

func closestTo(values []float64, target float64) float64 {
	closest := values[0]
	for _, v := range values[1:] {
		if math.Abs(v-target) < math.Abs(closest-target) {
			closest = v
		}
	}
	return closest
}

func deviationPercent(found, expected float64) float64 {
	if expected == 0 {
		if found == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs((found - expected) / expected * 100)
}
