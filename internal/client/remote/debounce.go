package remote

import "sync"

// Debouncer collapses a burst of free-text search triggers into one fetch.
// Each keystroke Arms a new sequence and schedules a settle message for
// later; only the settle carrying the latest sequence is Current, so one
// request is issued for the final string.
type Debouncer struct {
	mu  sync.Mutex
	seq uint64
}

// Arm registers a new trigger and returns its sequence.
func (d *Debouncer) Arm() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return d.seq
}

// Current reports whether seq is still the latest armed trigger.
func (d *Debouncer) Current(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq == d.seq
}
