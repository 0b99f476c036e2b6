// Package battery reads the AppleSmartBattery registry entry.
//
// A Battery owns at most one service handle. Open binds it, Close releases it,
// and every property read in between goes to the registry. Reads made while
// no handle is bound do not fail: each property applies its own default
// (see CurrentCapacity, ChargeCycles, Temperature).
package battery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/CristiGvl/produce/internal/iokit"
)

// ServiceName is the registry name of the battery service.
const ServiceName = "AppleSmartBattery"

var (
	// ErrAlreadyOpen is returned by Open when a handle is already bound.
	ErrAlreadyOpen = errors.New("battery service already open")
	// ErrNotFound is returned by Open when no battery service exists, and by
	// Close when no handle is bound.
	ErrNotFound = errors.New("battery service not found")
	// ErrCloseFailed is returned by Close when the registry refused the release.
	// The handle is unbound regardless.
	ErrCloseFailed = errors.New("failed to close battery service")
	// ErrPropertyAbsent is returned by properties that have no default.
	ErrPropertyAbsent = errors.New("battery property absent")
)

// Reader interface for battery monitoring
type Reader interface {
	Open(ctx context.Context) error
	Close() error
	GetInfo(ctx context.Context) (*Info, error)
}

// Battery accesses the battery's properties. It is safe for concurrent use.
type Battery struct {
	registry iokit.Registry
	matching iokit.Matching
	logger   *slog.Logger

	mu      sync.Mutex
	service *iokit.Service
}

// Option configures a Battery.
type Option func(*Battery)

// WithLogger sets the logger used for close failures and data anomalies.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Battery) {
		b.logger = logger
	}
}

// WithServiceName overrides the registry name matched by Open.
func WithServiceName(name string) Option {
	return func(b *Battery) {
		b.matching = iokit.NameMatching(name)
	}
}

// New creates a Battery with no handle bound.
func New(registry iokit.Registry, opts ...Option) *Battery {
	b := &Battery{
		registry: registry,
		matching: iokit.NameMatching(ServiceName),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b
}

// Open looks up the battery service and binds the handle.
func (b *Battery) Open(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.service != nil {
		return ErrAlreadyOpen
	}

	svc, err := b.registry.MatchService(ctx, b.matching)
	if err != nil {
		if errors.Is(err, iokit.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return fmt.Errorf("failed to open battery service: %w", err)
	}

	b.service = &svc
	b.logger.Debug("battery service opened", "service", svc.Matching.String(), "id", svc.ID)
	return nil
}

// Close releases the handle. The handle is unbound even when the release
// fails, so calling Close again reports ErrNotFound instead of releasing twice.
func (b *Battery) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.service == nil {
		return ErrNotFound
	}

	svc := *b.service
	b.service = nil

	if err := b.registry.Release(svc); err != nil {
		b.logger.Warn("failed to close battery service", "id", svc.ID, "error", err)
		return fmt.Errorf("%w: %w", ErrCloseFailed, err)
	}
	return nil
}

// IsOpen reports whether a handle is bound.
func (b *Battery) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.service != nil
}

// Property reads key converted to its fixed kind: int, bool, float64 or
// time.Duration. The bool is false when the property is absent or no handle
// is bound.
func (b *Battery) Property(ctx context.Context, key Key) (any, bool, error) {
	var (
		v   any
		ok  bool
		err error
	)
	switch key.Kind() {
	case iokit.KindInt:
		v, ok, err = b.readInt(ctx, key)
	case iokit.KindBool:
		v, ok, err = b.readBool(ctx, key)
	case iokit.KindFloat:
		v, ok, err = b.readFloat(ctx, key)
	case iokit.KindInterval:
		v, ok, err = b.readInterval(ctx, key)
	default:
		return nil, false, fmt.Errorf("unknown battery key %q", string(key))
	}
	if err != nil || !ok {
		return nil, false, err
	}
	return v, true, nil
}

func (b *Battery) readInt(ctx context.Context, key Key) (int, bool, error) {
	return readWith(ctx, b, key, iokit.ReadInt)
}

func (b *Battery) readBool(ctx context.Context, key Key) (bool, bool, error) {
	return readWith(ctx, b, key, iokit.ReadBool)
}

func (b *Battery) readFloat(ctx context.Context, key Key) (float64, bool, error) {
	return readWith(ctx, b, key, iokit.ReadFloat)
}

func (b *Battery) readInterval(ctx context.Context, key Key) (time.Duration, bool, error) {
	return readWith(ctx, b, key, iokit.ReadInterval)
}

func readWith[T any](ctx context.Context, b *Battery, key Key, read func(context.Context, iokit.Registry, iokit.Service, string) (T, bool, error)) (T, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	if b.service == nil {
		return zero, false, nil
	}
	return read(ctx, b.registry, *b.service, string(key))
}
