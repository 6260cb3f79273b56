package backend

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/calder-labs/maestro/pkg/models"
)

// entry pairs a descriptor with the invoker that serves it.
type entry struct {
	desc    *models.BackendDescriptor
	invoker Invoker
}

// snapshot copies the descriptor under the registry lock so callers never
// observe a reliability write mid-read. The copy is shallow; the task type
// slice is never mutated after registration.
func (e *entry) snapshot() *models.BackendDescriptor {
	d := *e.desc
	return &d
}

// Registry is the catalog of available backends. It is read-mostly:
// descriptors are loaded at startup and may be appended at runtime when a
// new backend is discovered. Reliability is the only mutated field, and
// only the performance ledger writes it.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a backend to the registry. The descriptor is validated and
// an already-registered id is an error.
func (r *Registry) Register(desc *models.BackendDescriptor, invoker Invoker) error {
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("backend %q: %w", desc.ID, err)
	}
	if invoker == nil {
		return fmt.Errorf("backend %q: nil invoker", desc.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[desc.ID]; exists {
		return fmt.Errorf("backend %q already registered", desc.ID)
	}
	r.entries[desc.ID] = &entry{desc: desc, invoker: invoker}
	return nil
}

// Append registers a backend discovered at runtime. Unlike Register, a
// duplicate id is ignored rather than treated as an error, so discovery
// can be re-run safely.
func (r *Registry) Append(desc *models.BackendDescriptor, invoker Invoker) {
	if err := r.Register(desc, invoker); err != nil {
		log.Printf("[registry] skipping %s: %v", desc.ID, err)
	}
}

// Descriptor returns a snapshot of the descriptor for the given id, or
// nil if unknown.
func (r *Registry) Descriptor(id string) *models.BackendDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[id]; ok {
		return e.snapshot()
	}
	return nil
}

// Invoker returns the invoker for the given id, or nil if unknown.
func (r *Registry) Invoker(id string) Invoker {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[id]; ok {
		return e.invoker
	}
	return nil
}

// Has returns true if a backend with the given id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// List returns descriptor snapshots sorted by id for stable iteration.
func (r *Registry) List() []*models.BackendDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]*models.BackendDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		descs = append(descs, e.snapshot())
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].ID < descs[j].ID })
	return descs
}

// Supporting returns snapshots of the descriptors whose supported task
// types include the given type, sorted by id. Snapshots keep ranking over
// the result stable while the ledger refreshes reliability concurrently.
func (r *Registry) Supporting(taskType models.TaskType) []*models.BackendDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var descs []*models.BackendDescriptor
	for _, e := range r.entries {
		if e.desc.Supports(taskType) {
			descs = append(descs, e.snapshot())
		}
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].ID < descs[j].ID })
	return descs
}

// Count returns the number of registered backends.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// SetReliability updates a backend's reliability score. Called by the
// performance ledger after each recorded attempt; no other writer exists.
func (r *Registry) SetReliability(id string, reliability float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.desc.Reliability = reliability
	}
}
