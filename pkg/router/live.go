package router

import (
	"sync"
	"sync/atomic"
)

// Live is a concurrency-safe holder around a Router. Reads are lock-free
// snapshot loads; updates build a complete new table and publish it
// atomically, so a concurrent Match always observes either the previous
// or the next table, never a partial one. This is the piece that makes
// hot manifest reloads safe while requests are in flight.
type Live struct {
	mu      sync.Mutex // serializes AddRoute and Swap
	current atomic.Pointer[Router]
}

// NewLive wraps an already-built router.
func NewLive(r *Router) *Live {
	l := &Live{}
	l.current.Store(r)
	return l
}

// Match resolves against the current snapshot.
func (l *Live) Match(rawPath string) *MatchResult {
	return l.current.Load().Match(rawPath)
}

// Routes lists the current snapshot's declarations.
func (l *Live) Routes() []RouteDeclaration {
	return l.current.Load().Routes()
}

// Stats summarizes the current snapshot.
func (l *Live) Stats() Stats {
	return l.current.Load().Stats()
}

// Snapshot returns the current router. The result stays valid and
// consistent even after later swaps.
func (l *Live) Snapshot() *Router {
	return l.current.Load()
}

// AddRoute validates decl against the current snapshot and publishes an
// extended table. Concurrent matches keep hitting the old table until
// the swap completes; on error nothing is published.
func (l *Live) AddRoute(decl RouteDeclaration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	next, err := New(append(l.current.Load().Routes(), decl))
	if err != nil {
		return err
	}
	l.current.Store(next)
	return nil
}

// Swap publishes r wholesale and returns the previous snapshot. Used by
// the dev server when a reloaded manifest produces a new table.
func (l *Live) Swap(r *Router) *Router {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.current.Load()
	l.current.Store(r)
	return prev
}
