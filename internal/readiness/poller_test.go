// ABOUTME: Tests for the readiness poller
// ABOUTME: Covers bounded termination, early success, single-flight, and cancellation

package readiness

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoller_AlwaysPendingFailsAfterBudget(t *testing.T) {
	const maxAttempts = 5

	var calls atomic.Int32
	probe := func(ctx context.Context) (Status, error) {
		calls.Add(1)
		return StatusPending, nil
	}

	p := New(probe, time.Millisecond, maxAttempts)
	ctx := context.Background()

	var status Status
	for i := 0; i < maxAttempts+10; i++ {
		status = p.Tick(ctx)
		if status == StatusFailed {
			break
		}
	}

	if status != StatusFailed {
		t.Fatalf("status = %v, want StatusFailed", status)
	}
	if got := calls.Load(); got != maxAttempts+1 {
		t.Errorf("probe calls = %d, want exactly %d", got, maxAttempts+1)
	}

	// Terminal state issues no further probes
	for i := 0; i < 5; i++ {
		if st := p.Tick(ctx); st != StatusFailed {
			t.Fatalf("Tick after failure = %v, want StatusFailed", st)
		}
	}
	if got := calls.Load(); got != maxAttempts+1 {
		t.Errorf("probe calls after terminal state = %d, want %d", got, maxAttempts+1)
	}
}

func TestPoller_EarlySuccessStopsProbing(t *testing.T) {
	const readyOn = 3

	var calls atomic.Int32
	probe := func(ctx context.Context) (Status, error) {
		if calls.Add(1) == readyOn {
			return StatusReady, nil
		}
		return StatusPending, nil
	}

	p := New(probe, time.Millisecond, 30)
	ctx := context.Background()

	var status Status
	for i := 0; i < 10; i++ {
		status = p.Tick(ctx)
		if status == StatusReady {
			break
		}
	}

	if status != StatusReady {
		t.Fatalf("status = %v, want StatusReady", status)
	}
	if got := calls.Load(); got != readyOn {
		t.Errorf("probe calls = %d, want %d", got, readyOn)
	}

	p.Tick(ctx)
	p.Tick(ctx)
	if got := calls.Load(); got != readyOn {
		t.Errorf("probe calls after ready = %d, want %d", got, readyOn)
	}
}

func TestPoller_ProbeErrorTreatedAsPending(t *testing.T) {
	var calls atomic.Int32
	probe := func(ctx context.Context) (Status, error) {
		if calls.Add(1) < 3 {
			return StatusPending, errors.New("connection refused")
		}
		return StatusReady, nil
	}

	p := New(probe, time.Millisecond, 30)
	ctx := context.Background()

	var status Status
	for i := 0; i < 10 && status != StatusReady; i++ {
		status = p.Tick(ctx)
	}

	if status != StatusReady {
		t.Fatalf("status = %v, want StatusReady after errors settle", status)
	}
	if p.Attempts() != 2 {
		t.Errorf("Attempts() = %d, want 2 (errored probes count against the budget)", p.Attempts())
	}
}

func TestPoller_SingleFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var calls atomic.Int32
	probe := func(ctx context.Context) (Status, error) {
		calls.Add(1)
		close(started)
		<-release
		return StatusReady, nil
	}

	p := New(probe, time.Millisecond, 30)
	ctx := context.Background()

	done := make(chan Status, 1)
	go func() {
		done <- p.Tick(ctx)
	}()

	<-started

	// A tick landing mid-probe must be skipped, not start a second probe
	if st := p.Tick(ctx); st != StatusPending {
		t.Errorf("overlapping Tick = %v, want StatusPending", st)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("probe calls = %d, want 1 while first probe is in flight", got)
	}

	close(release)
	if st := <-done; st != StatusReady {
		t.Errorf("first Tick result = %v, want StatusReady", st)
	}
}

func TestPoller_RunReturnsReady(t *testing.T) {
	var calls atomic.Int32
	probe := func(ctx context.Context) (Status, error) {
		if calls.Add(1) >= 3 {
			return StatusReady, nil
		}
		return StatusPending, nil
	}

	p := New(probe, 5*time.Millisecond, 30)

	status, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != StatusReady {
		t.Errorf("Run() = %v, want StatusReady", status)
	}
}

func TestPoller_RunCancellationStopsTicks(t *testing.T) {
	var calls atomic.Int32
	probe := func(ctx context.Context) (Status, error) {
		calls.Add(1)
		return StatusPending, nil
	}

	p := New(probe, 5*time.Millisecond, 10000)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx)
		done <- err
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}

	// No orphaned ticks after cancellation
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := calls.Load(); got != settled {
		t.Errorf("probe calls rose from %d to %d after cancellation", settled, got)
	}
}
