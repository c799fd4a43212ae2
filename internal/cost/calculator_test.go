package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFlat(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	assert.Equal(t, 0.0001, calc.TierFlat("structured"))
	assert.Equal(t, 0.001, calc.TierFlat("ocr"))
	assert.Zero(t, calc.TierFlat("unknown"))
}

func TestClaude(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(DefaultRates())

	// 1M input at $3.00 + 1M output at $15.00
	got := calc.Claude("claude-sonnet-4-5-20250929", 1_000_000, 1_000_000)
	assert.InDelta(t, 18.00, got, 1e-9)

	got = calc.Claude("claude-haiku-4-5-20251001", 500_000, 0)
	assert.InDelta(t, 0.40, got, 1e-9)

	assert.Zero(t, calc.Claude("unknown-model", 1_000_000, 1_000_000))
}
