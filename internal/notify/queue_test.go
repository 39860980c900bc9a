// ABOUTME: Tests for the notification queue
// ABOUTME: Covers auto-expiry, idempotent removal, ordering, and the sink

package notify

import (
	"testing"
	"time"
)

func TestQueue_AddAndSnapshot(t *testing.T) {
	q := NewQueue(time.Minute)
	defer q.Close()

	id1 := q.Success("saved")
	id2 := q.Error("boom")

	toasts := q.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("Toasts() length = %d, want 2", len(toasts))
	}
	if toasts[0].ID != id1 || toasts[1].ID != id2 {
		t.Error("insertion order not preserved")
	}
	if toasts[0].Severity != SeveritySuccess {
		t.Errorf("severity = %q, want %q", toasts[0].Severity, SeveritySuccess)
	}
	if toasts[1].Severity != SeverityError {
		t.Errorf("severity = %q, want %q", toasts[1].Severity, SeverityError)
	}
}

func TestQueue_UniqueIDs(t *testing.T) {
	q := NewQueue(time.Minute)
	defer q.Close()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := q.Success("x")
		if seen[id] {
			t.Fatalf("duplicate toast id %q", id)
		}
		seen[id] = true
	}
}

func TestQueue_AutoExpiry(t *testing.T) {
	q := NewQueue(50 * time.Millisecond)
	defer q.Close()

	q.Success("short-lived")

	if len(q.Toasts()) != 1 {
		t.Fatal("toast absent immediately after add")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(q.Toasts()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("toast did not expire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQueue_ExplicitDismissalBeatsTimer(t *testing.T) {
	q := NewQueue(time.Minute)
	defer q.Close()

	id := q.Success("dismiss me")
	q.Remove(id)

	if len(q.Toasts()) != 0 {
		t.Error("toast still present after explicit removal")
	}
}

func TestQueue_RemoveIdempotent(t *testing.T) {
	q := NewQueue(time.Minute)
	defer q.Close()

	q.Success("keep")

	// Removing ids that were never issued must not disturb the queue
	q.Remove("toast-nonexistent")
	q.Remove("")

	if len(q.Toasts()) != 1 {
		t.Errorf("Toasts() length = %d, want 1 after removing absent ids", len(q.Toasts()))
	}

	id := q.Toasts()[0].ID
	q.Remove(id)
	q.Remove(id) // second removal is a no-op

	if len(q.Toasts()) != 0 {
		t.Error("queue not empty after removal")
	}
}

func TestQueue_SinkReceivesToasts(t *testing.T) {
	q := NewQueue(time.Minute)
	defer q.Close()

	var got []Toast
	q.Notify(func(toast Toast) {
		got = append(got, toast)
	})

	q.Success("one")
	q.Error("two")

	if len(got) != 2 {
		t.Fatalf("sink received %d toasts, want 2", len(got))
	}
	if got[0].Body != "one" || got[1].Body != "two" {
		t.Error("sink received toasts out of order")
	}
}

func TestQueue_ClosedQueueDropsToasts(t *testing.T) {
	q := NewQueue(time.Minute)
	q.Close()

	if id := q.Success("late"); id != "" {
		t.Errorf("Success on closed queue returned id %q, want empty", id)
	}
	if len(q.Toasts()) != 0 {
		t.Error("closed queue accepted a toast")
	}
}
