package iokit

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/CristiGvl/produce/internal/shell"
	"howett.net/plist"
)

// IORegRegistry implements Registry on top of the ioreg tool. Every property
// fetch re-reads the registry so values are never served from a cache.
type IORegRegistry struct {
	runner shell.Runner

	mu     sync.Mutex
	nextID uint64
	live   map[uint64]Matching
}

// NewIORegRegistry creates a registry that runs ioreg through runner.
func NewIORegRegistry(runner shell.Runner) *IORegRegistry {
	return &IORegRegistry{
		runner: runner,
		live:   make(map[uint64]Matching),
	}
}

// MatchService looks up the first entry matching m.
func (r *IORegRegistry) MatchService(ctx context.Context, m Matching) (Service, error) {
	entries, err := r.query(ctx, m)
	if err != nil {
		return Service{}, err
	}
	if len(entries) == 0 {
		return Service{}, fmt.Errorf("%s: %w", m, ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.live[r.nextID] = m

	return Service{ID: r.nextID, Matching: m}, nil
}

// Property reads key from the current state of svc.
func (r *IORegRegistry) Property(ctx context.Context, svc Service, key string) (any, bool, error) {
	if !r.isLive(svc) {
		return nil, false, ErrReleased
	}

	entries, err := r.query(ctx, svc.Matching)
	if err != nil {
		return nil, false, err
	}
	// The entry can vanish between lookup and read (battery removed, device
	// detached). That is an absent property, not a failure.
	if len(entries) == 0 {
		return nil, false, nil
	}

	v, ok := entries[0][key]
	return v, ok, nil
}

// Release forgets svc. Releasing twice returns ErrReleased.
func (r *IORegRegistry) Release(svc Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[svc.ID]; !ok {
		return ErrReleased
	}
	delete(r.live, svc.ID)
	return nil
}

// Live returns the number of services matched and not yet released.
func (r *IORegRegistry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *IORegRegistry) isLive(svc Service) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[svc.ID]
	return ok
}

func (r *IORegRegistry) query(ctx context.Context, m Matching) ([]map[string]any, error) {
	args := []string{"-r", "-a", "-d", "1"}
	if m.Class != "" {
		args = append(args, "-c", m.Class)
	} else {
		args = append(args, "-n", m.Name)
	}

	out, err := r.runner.Output(ctx, "ioreg", args...)
	if err != nil {
		return nil, fmt.Errorf("ioreg lookup for %s failed: %w", m, err)
	}

	// ioreg prints nothing at all when nothing matches.
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	var entries []map[string]any
	if _, err := plist.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse ioreg output: %w", err)
	}
	return entries, nil
}
