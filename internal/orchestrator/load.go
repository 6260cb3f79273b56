package orchestrator

import (
	"context"
	"sync"
	"time"
)

// slot tracks the in-flight count for one backend. Each slot has its own
// lock so acquisitions for different backends never block each other.
type slot struct {
	mu     sync.Mutex
	active int
	max    int
	// freed receives a signal when a unit of capacity is released.
	freed chan struct{}
}

// LoadTracker counts in-flight tasks per backend and enforces each
// backend's concurrency ceiling. Counters are never persisted; they reset
// with the process.
type LoadTracker struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

// NewLoadTracker creates an empty load tracker.
func NewLoadTracker() *LoadTracker {
	return &LoadTracker{slots: make(map[string]*slot)}
}

// Ensure registers a backend's concurrency ceiling, creating its counter
// if needed. Safe to call repeatedly; the ceiling is updated in place.
func (t *LoadTracker) Ensure(backendID string, maxConcurrent int) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.slots[backendID]; ok {
		s.mu.Lock()
		s.max = maxConcurrent
		s.mu.Unlock()
		return
	}
	t.slots[backendID] = &slot{max: maxConcurrent, freed: make(chan struct{}, 1)}
}

// TryAcquire attempts to claim one unit of capacity for the backend.
// Returns false without changing the count when the backend is saturated
// or unknown.
func (t *LoadTracker) TryAcquire(backendID string) bool {
	s := t.slot(backendID)
	if s == nil {
		debugLog("[load] tryAcquire on unknown backend %s", backendID)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active >= s.max {
		return false
	}
	s.active++
	return true
}

// Acquire blocks until a unit of capacity is available or the context is
// done. This is the executor's backpressure path for saturated backends.
func (t *LoadTracker) Acquire(ctx context.Context, backendID string) error {
	s := t.slot(backendID)
	if s == nil {
		// Unregistered backends have no ceiling to wait on.
		return errUnknownBackend(backendID)
	}

	// The freed channel holds at most one signal, so a waiter can miss a
	// release that raced with another waiter. The ticker bounds how long
	// a missed signal delays us.
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		if t.TryAcquire(backendID) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.freed:
		case <-ticker.C:
		}
	}
}

// Release returns one unit of capacity. Must be called exactly once per
// successful acquire, on every exit path.
func (t *LoadTracker) Release(backendID string) {
	s := t.slot(backendID)
	if s == nil {
		return
	}

	s.mu.Lock()
	if s.active > 0 {
		s.active--
	}
	s.mu.Unlock()

	select {
	case s.freed <- struct{}{}:
	default:
	}
}

// Active returns the current in-flight count for the backend.
func (t *LoadTracker) Active(backendID string) int {
	s := t.slot(backendID)
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// slot returns the counter for a backend, or nil if never registered.
func (t *LoadTracker) slot(backendID string) *slot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[backendID]
}
