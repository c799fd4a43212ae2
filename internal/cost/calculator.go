package cost

// Rates holds pricing configuration: flat rates for the local extraction
// tiers and per-model token pricing for API tiers.
type Rates struct {
	Tiers     map[string]float64   `yaml:"tiers" mapstructure:"tiers"`
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// Calculator computes costs for extraction work.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// TierFlat returns the flat per-document cost of a local tier. Unknown tier
// names cost 0.
func (c *Calculator) TierFlat(tier string) float64 {
	return c.rates.Tiers[tier]
}

// Claude computes the cost for a Claude API call.
func (c *Calculator) Claude(model string, input, output int64) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}
	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	return inCost + outCost
}

// DefaultRates returns the default pricing rates. The tier constants come
// from measured per-document costs: pdftotext is effectively free, OCR is
// local CPU time, vision is real API spend.
func DefaultRates() Rates {
	return Rates{
		Tiers: map[string]float64{
			"structured": 0.0001,
			"ocr":        0.001,
		},
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
			"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
			"claude-opus-4-6":            {Input: 15.00, Output: 75.00},
		},
	}
}
