package cost

import (
	"sync"
	"time"
)

// Entry is one cost event in a ledger.
type Entry struct {
	Label   string    `json:"label"`
	CostUSD float64   `json:"cost_usd"`
	At      time.Time `json:"at"`
}

// Ledger is an explicit, caller-owned, append-only cost log. Pipeline
// functions return their own cost figures; any cumulative tracking happens
// here, in the integration layer, never in hidden package state. Safe for
// concurrent appends from batch workers.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Add appends a cost event.
func (l *Ledger) Add(label string, costUSD float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Label: label, CostUSD: costUSD, At: time.Now().UTC()})
}

// Total returns the sum of all entries.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0.0
	for _, e := range l.entries {
		total += e.CostUSD
	}
	return total
}

// Entries returns a copy of the ledger contents in append order.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Merge appends every entry of other into l. Used to fold per-worker
// ledgers into a batch total after workers finish.
func (l *Ledger) Merge(other *Ledger) {
	for _, e := range other.Entries() {
		l.mu.Lock()
		l.entries = append(l.entries, e)
		l.mu.Unlock()
	}
}
