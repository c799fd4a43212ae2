package cascade

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-cli/internal/model"
)

// fakeTier implements Tier with a canned response.
type fakeTier struct {
	name    string
	method  model.Method
	attempt *Attempt
	err     error
	calls   int
}

func (f *fakeTier) Name() string         { return f.name }
func (f *fakeTier) Method() model.Method { return f.method }
func (f *fakeTier) Extract(_ context.Context, _ Document) (*Attempt, error) {
	f.calls++
	return f.attempt, f.err
}

func fullRecord() model.ExtractionRecord {
	acct := "123-456"
	start := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC)
	usage := 850.0
	cost := 127.50
	return model.ExtractionRecord{
		AccountNumber:    &acct,
		ServiceStartDate: &start,
		ServiceEndDate:   &end,
		UsageAmount:      &usage,
		UsageUnit:        model.UnitKWh,
		TotalCost:        &cost,
	}
}

func usageOnlyRecord(usage float64) model.ExtractionRecord {
	return model.ExtractionRecord{
		UsageAmount: &usage,
		UsageUnit:   model.UnitKWh,
	}
}

func TestExecutor_FirstTierWins(t *testing.T) {
	t1 := &fakeTier{name: "structured", method: model.MethodStructured,
		attempt: &Attempt{Record: fullRecord(), CostUSD: 0.0001}}
	t2 := &fakeTier{name: "ocr", method: model.MethodOCR,
		attempt: &Attempt{Record: fullRecord(), CostUSD: 0.001}}
	t3 := &fakeTier{name: "vision", method: model.MethodVision,
		attempt: &Attempt{Record: fullRecord(), CostUSD: 0.02}}

	exec := NewExecutor(DefaultConfig(), []Tier{t1, t2, t3})
	result, err := exec.Run(context.Background(), Document{Path: "bill.pdf"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.MethodStructured, result.Method)
	assert.InDelta(t, 1.0, result.Confidence, 1e-9)
	assert.Equal(t, 0.0001, result.CostUSD)
	assert.Equal(t, []string{"structured"}, result.TiersAttempted)

	// The whole point of the cascade: later tiers are never invoked.
	assert.Equal(t, 1, t1.calls)
	assert.Zero(t, t2.calls)
	assert.Zero(t, t3.calls)
}

func TestExecutor_AdvancesPastFailedTier(t *testing.T) {
	t1 := &fakeTier{name: "structured", method: model.MethodStructured,
		err: eris.New("no text layer")}
	t2 := &fakeTier{name: "ocr", method: model.MethodOCR,
		attempt: &Attempt{Record: fullRecord(), CostUSD: 0.001}}

	exec := NewExecutor(DefaultConfig(), []Tier{t1, t2})
	result, err := exec.Run(context.Background(), Document{Path: "scan.pdf"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, model.MethodOCR, result.Method)
	assert.Equal(t, []string{"structured", "ocr"}, result.TiersAttempted)
	assert.Equal(t, 0.001, result.CostUSD)
}

func TestExecutor_BestFallbackWhenNoTierClears(t *testing.T) {
	// Tier 1 finds usage only (0.40 after unit counts); tier 2 finds even
	// less. Neither clears 0.85; the better of the two must come back.
	t1 := &fakeTier{name: "structured", method: model.MethodStructured,
		attempt: &Attempt{Record: usageOnlyRecord(850), CostUSD: 0.0001}}
	t2 := &fakeTier{name: "ocr", method: model.MethodOCR,
		attempt: &Attempt{Record: model.ExtractionRecord{}, CostUSD: 0.001}}

	exec := NewExecutor(DefaultConfig(), []Tier{t1, t2})
	result, err := exec.Run(context.Background(), Document{Path: "hard.pdf"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.True(t, result.AllTiersFailed)
	assert.Equal(t, model.MethodStructured, result.Method, "fallback is best by confidence, not last attempted")
	assert.Equal(t, []string{"structured", "ocr"}, result.TiersAttempted)
	// Cost is cumulative across both attempts.
	assert.InDelta(t, 0.0011, result.CostUSD, 1e-9)
}

func TestExecutor_CumulativeCostIncludesFailedPaidAttempts(t *testing.T) {
	// A tier can report spend alongside its error.
	t1 := &fakeTier{name: "structured", method: model.MethodStructured,
		attempt: &Attempt{CostUSD: 0.0001}, err: eris.New("garbled")}
	t2 := &fakeTier{name: "vision", method: model.MethodVision,
		attempt: &Attempt{Record: fullRecord(), CostUSD: 0.02}}

	exec := NewExecutor(DefaultConfig(), []Tier{t1, t2})
	result, err := exec.Run(context.Background(), Document{Path: "bill.pdf"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.InDelta(t, 0.0201, result.CostUSD, 1e-9)
}

func TestExecutor_ValidatorPenaltyApplied(t *testing.T) {
	rec := fullRecord()
	badUsage := 75000.0 // above validator band: one issue, -0.10
	rec.UsageAmount = &badUsage

	t1 := &fakeTier{name: "structured", method: model.MethodStructured,
		attempt: &Attempt{Record: rec, CostUSD: 0.0001}}

	exec := NewExecutor(DefaultConfig(), []Tier{t1})
	result, err := exec.Run(context.Background(), Document{})
	require.NoError(t, err)

	// Implausible unit price and usage: two issues, complete record.
	assert.Less(t, result.Confidence, 1.0)
	assert.NotEmpty(t, result.Record.Warnings)
}

func TestExecutor_AllTiersError(t *testing.T) {
	t1 := &fakeTier{name: "structured", method: model.MethodStructured, err: eris.New("boom")}
	t2 := &fakeTier{name: "ocr", method: model.MethodOCR, err: eris.New("boom")}

	exec := NewExecutor(DefaultConfig(), []Tier{t1, t2})
	result, err := exec.Run(context.Background(), Document{Path: "bad.pdf"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "all 2 tiers failed")
}

func TestExecutor_ThresholdConfigurable(t *testing.T) {
	t1 := &fakeTier{name: "structured", method: model.MethodStructured,
		attempt: &Attempt{Record: usageOnlyRecord(850), CostUSD: 0.0001}}

	cfg := DefaultConfig()
	cfg.ConfidenceThreshold = 0.30

	exec := NewExecutor(cfg, []Tier{t1})
	result, err := exec.Run(context.Background(), Document{})
	require.NoError(t, err)
	assert.True(t, result.Success, "lowered threshold accepts a sparse record")
}
