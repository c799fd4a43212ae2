package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AddAndTotal(t *testing.T) {
	t.Parallel()
	l := NewLedger()
	assert.Zero(t, l.Total())

	l.Add("extract:structured", 0.0001)
	l.Add("extract:vision", 0.0213)
	l.Add("report:claude-sonnet-4-5-20250929", 0.009)

	assert.InDelta(t, 0.0304, l.Total(), 1e-9)

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "extract:structured", entries[0].Label)
	assert.False(t, entries[0].At.IsZero())
}

func TestLedger_EntriesIsACopy(t *testing.T) {
	t.Parallel()
	l := NewLedger()
	l.Add("a", 1)

	entries := l.Entries()
	entries[0].CostUSD = 99

	assert.Equal(t, 1.0, l.Total())
}

func TestLedger_Merge(t *testing.T) {
	t.Parallel()
	total := NewLedger()
	worker := NewLedger()
	worker.Add("extract:ocr", 0.001)
	worker.Add("extract:vision", 0.02)

	total.Add("extract:structured", 0.0001)
	total.Merge(worker)

	assert.InDelta(t, 0.0211, total.Total(), 1e-9)
	assert.Len(t, total.Entries(), 3)
}

func TestLedger_ConcurrentAdds(t *testing.T) {
	t.Parallel()
	l := NewLedger()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Add("work", 0.01)
		}()
	}
	wg.Wait()

	assert.Len(t, l.Entries(), 50)
	assert.InDelta(t, 0.50, l.Total(), 1e-9)
}
