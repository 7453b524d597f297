// Package guard provides the in-process half of the scheduler's dedup
// mechanism: a registry of items currently under evaluation, so overlapping
// scans inside one process never double-process the same item.
package guard

import (
	"sync"

	"reminderd/internal/models"
)

type key struct {
	kind models.ItemKind
	id   uint
}

// Registry tracks (kind, id) pairs that are in flight. It is owned by the
// composition root and injected wherever needed; it holds no persistent
// state and is empty on every process start.
type Registry struct {
	mu       sync.Mutex
	inFlight map[key]struct{}
}

func NewRegistry() *Registry {
	return &Registry{inFlight: make(map[key]struct{})}
}

// TryAcquire marks the item as in flight. It returns false if another
// evaluation of the same item is already running, in which case the caller
// must skip the item and must not call Release.
func (r *Registry) TryAcquire(kind models.ItemKind, id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{kind: kind, id: id}
	if _, exists := r.inFlight[k]; exists {
		return false
	}
	r.inFlight[k] = struct{}{}
	return true
}

// Release removes the item from the registry. Callers release unconditionally
// after processing, whatever the outcome; a key left behind would block the
// item forever.
func (r *Registry) Release(kind models.ItemKind, id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, key{kind: kind, id: id})
}

// Holds reports whether the item is currently in flight.
func (r *Registry) Holds(kind models.ItemKind, id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.inFlight[key{kind: kind, id: id}]
	return exists
}

// Len returns the number of items currently in flight.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inFlight)
}
