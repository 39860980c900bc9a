// ABOUTME: Bounded single-flight readiness polling state machine
// ABOUTME: Tick-driven so termination logic is testable without fake timers

package readiness

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status is the tri-state result of a readiness check.
type Status int

const (
	StatusPending Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Probe performs a single readiness check against an external endpoint.
// A returned error counts the same as StatusPending: retry, don't fail fast.
type Probe func(ctx context.Context) (Status, error)

// Poller repeatedly evaluates a probe until it reports ready or a bounded
// attempt budget runs out. Ready and Failed are terminal: once reached, no
// further probes are ever issued. At most one probe is in flight at a time;
// a tick that lands while the previous probe is still running is skipped.
type Poller struct {
	probe       Probe
	interval    time.Duration
	maxAttempts int
	logger      *slog.Logger

	mu       sync.Mutex
	attempt  int
	status   Status
	inFlight bool
}

// New creates a poller driving probe every interval with the given attempt
// budget. The poller fails after maxAttempts+1 unsuccessful probes.
func New(probe Probe, interval time.Duration, maxAttempts int) *Poller {
	return &Poller{
		probe:       probe,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      slog.Default().With("component", "readiness"),
	}
}

// Status returns the poller's current state.
func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Attempts returns how many unsuccessful probes have completed.
func (p *Poller) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempt
}

// Tick advances the state machine by one step and returns the resulting
// status. In a terminal state it returns immediately without probing. If a
// probe from an earlier tick has not resolved, the tick is skipped.
func (p *Poller) Tick(ctx context.Context) Status {
	p.mu.Lock()

	if p.status != StatusPending {
		defer p.mu.Unlock()
		return p.status
	}
	if p.inFlight {
		defer p.mu.Unlock()
		return p.status
	}
	if p.attempt > p.maxAttempts {
		p.status = StatusFailed
		p.logger.Warn("readiness budget exhausted", "attempts", p.attempt)
		defer p.mu.Unlock()
		return p.status
	}

	p.inFlight = true
	p.mu.Unlock()

	result, err := p.probe(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if err != nil {
		p.logger.Debug("probe error, retrying", "error", err, "attempt", p.attempt)
		result = StatusPending
	}

	switch result {
	case StatusReady:
		p.status = StatusReady
	default:
		p.attempt++
	}
	return p.status
}

// Run drives Tick on a fixed cadence until the poller reaches a terminal
// state or ctx is cancelled. After cancellation no further tick fires.
// Exactly one terminal status is returned per Run.
func (p *Poller) Run(ctx context.Context) (Status, error) {
	// Probe once up front so a ready backend doesn't cost a full interval.
	if st := p.Tick(ctx); st != StatusPending {
		return st, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.Status(), ctx.Err()
		case <-ticker.C:
			if st := p.Tick(ctx); st != StatusPending {
				return st, nil
			}
		}
	}
}
