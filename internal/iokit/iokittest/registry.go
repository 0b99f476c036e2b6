// Package iokittest provides an in-memory iokit.Registry for tests.
package iokittest

import (
	"context"
	"fmt"
	"sync"

	"github.com/CristiGvl/produce/internal/iokit"
)

// Registry is an in-memory iokit.Registry. Properties are looked up live on
// every fetch, so tests may mutate them between reads via Set.
type Registry struct {
	mu       sync.Mutex
	entries  map[iokit.Matching]map[string]any
	live     map[uint64]bool
	nextID   uint64
	released int

	// MatchErr, PropertyErr and ReleaseErr are returned by the matching
	// method when set.
	MatchErr    error
	PropertyErr error
	ReleaseErr  error
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[iokit.Matching]map[string]any),
		live:    make(map[uint64]bool),
	}
}

// Add registers an entry for m with the given properties.
func (r *Registry) Add(m iokit.Matching, props map[string]any) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[string]any, len(props))
	for k, v := range props {
		cp[k] = v
	}
	r.entries[m] = cp
	return r
}

// Set changes one property of the entry for m.
func (r *Registry) Set(m iokit.Matching, key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[m] == nil {
		r.entries[m] = make(map[string]any)
	}
	r.entries[m][key] = value
}

// Delete removes one property of the entry for m.
func (r *Registry) Delete(m iokit.Matching, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries[m], key)
}

// MatchService implements iokit.Registry.
func (r *Registry) MatchService(ctx context.Context, m iokit.Matching) (iokit.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.MatchErr != nil {
		return iokit.Service{}, r.MatchErr
	}
	if _, ok := r.entries[m]; !ok {
		return iokit.Service{}, fmt.Errorf("%s: %w", m, iokit.ErrNotFound)
	}
	r.nextID++
	r.live[r.nextID] = true
	return iokit.Service{ID: r.nextID, Matching: m}, nil
}

// Property implements iokit.Registry.
func (r *Registry) Property(ctx context.Context, svc iokit.Service, key string) (any, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PropertyErr != nil {
		return nil, false, r.PropertyErr
	}
	if !r.live[svc.ID] {
		return nil, false, iokit.ErrReleased
	}
	v, ok := r.entries[svc.Matching][key]
	return v, ok, nil
}

// Release implements iokit.Registry.
func (r *Registry) Release(svc iokit.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.live[svc.ID] {
		return iokit.ErrReleased
	}
	delete(r.live, svc.ID)
	r.released++
	if r.ReleaseErr != nil {
		return r.ReleaseErr
	}
	return nil
}

// Live returns the number of services matched and not yet released.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Released returns how many times a live service was released.
func (r *Registry) Released() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
