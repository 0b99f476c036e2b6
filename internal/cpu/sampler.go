package cpu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Ticks are the cumulative per-category CPU tick counters since boot.
type Ticks struct {
	User   uint64 `json:"user"`
	System uint64 `json:"system"`
	Idle   uint64 `json:"idle"`
	Nice   uint64 `json:"nice"`
}

// TickSource reads the current tick counters.
type TickSource interface {
	Ticks(ctx context.Context) (Ticks, error)
}

// Usage is the share of ticks spent in each category between two samples,
// each in [0, 100]. The four values need not sum to exactly 100.
type Usage struct {
	System float64 `json:"system_percent"`
	User   float64 `json:"user_percent"`
	Idle   float64 `json:"idle_percent"`
	Nice   float64 `json:"nice_percent"`
	// TotalTicks is the number of ticks the percentages are computed over.
	// Zero means no ticks elapsed and every percentage is zero.
	TotalTicks uint64 `json:"total_ticks"`
}

// Busy returns the non-idle share.
func (u Usage) Busy() float64 {
	return u.System + u.User + u.Nice
}

// ComputeUsage derives per-category percentages from two samples. A counter
// that went backwards (wrapped) contributes nothing for this sample, and a
// sample with no elapsed ticks yields all zeros.
func ComputeUsage(prev, cur Ticks) Usage {
	user := delta(prev.User, cur.User)
	system := delta(prev.System, cur.System)
	idle := delta(prev.Idle, cur.Idle)
	nice := delta(prev.Nice, cur.Nice)

	total := user + system + idle + nice
	if total == 0 {
		return Usage{}
	}

	t := float64(total)
	return Usage{
		System:     float64(system) / t * 100,
		User:       float64(user) / t * 100,
		Idle:       float64(idle) / t * 100,
		Nice:       float64(nice) / t * 100,
		TotalTicks: total,
	}
}

func delta(prev, cur uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

// Sampler holds the previous tick sample. The first reading is relative to a
// zero baseline, i.e. it averages over the whole uptime.
type Sampler struct {
	source TickSource
	logger *slog.Logger

	mu       sync.Mutex
	previous Ticks
	sampled  bool
}

// NewSampler creates a Sampler with a zero baseline. A nil logger discards.
func NewSampler(source TickSource, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{source: source, logger: logger}
}

// Usage reads the counters, computes usage against the previous sample and
// keeps the new sample for the next call. On a read error the previous
// sample is kept.
func (s *Sampler) Usage(ctx context.Context) (Usage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.source.Ticks(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read CPU ticks: %w", err)
	}

	if !s.sampled {
		s.logger.Debug("first CPU sample, usage is averaged since boot")
	}
	if cur.User < s.previous.User || cur.System < s.previous.System ||
		cur.Idle < s.previous.Idle || cur.Nice < s.previous.Nice {
		s.logger.Debug("CPU tick counter wrapped", "previous", s.previous, "current", cur)
	}

	usage := ComputeUsage(s.previous, cur)
	s.previous = cur
	s.sampled = true
	return usage, nil
}

// Previous returns the sample the next Usage call will compare against.
func (s *Sampler) Previous() Ticks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previous
}
