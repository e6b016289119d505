// Package remote holds the shared fetch-cycle primitives every view
// controller instantiates: stale-response protection, search debouncing and
// pagination bookkeeping. Extracting them here keeps the per-view
// controllers down to triggers, endpoints and derived view models.
package remote

import (
	"context"
	"sync"
)

// Guard serializes a view's fetch cycles. Each call to Next cancels the
// in-flight fetch and hands out a fresh generation; a completed fetch is
// applied only when Accept still recognizes its generation. Both halves of
// the ordering guarantee are covered: the superseded request is canceled,
// and a late response that slipped through is dropped.
type Guard struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Next cancels any outstanding fetch and returns a context and generation
// for the new one.
func (g *Guard) Next(parent context.Context) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	g.cancel = cancel
	g.gen++
	return ctx, g.gen
}

// Accept reports whether a fetch tagged with gen is still the latest.
func (g *Guard) Accept(gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return gen == g.gen
}

// Cancel aborts the in-flight fetch, if any. Navigating away from a view
// calls this; cancellation is silent, never a user-visible error.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
