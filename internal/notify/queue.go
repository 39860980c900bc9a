// ABOUTME: Transient notification queue fed by command outcomes
// ABOUTME: Each toast auto-expires after a fixed display duration unless dismissed

package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays in the queue before expiring on its own.
const DefaultTTL = 3000 * time.Millisecond

// Severity classifies a toast
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Toast is a single transient user-facing message.
type Toast struct {
	ID        string
	Body      string
	Severity  Severity
	CreatedAt time.Time
}

// Queue is an append-only, ordered collection of toasts. Ids are generated
// by the queue instance itself so independent queues never collide. There is
// no de-duplication and no cap; callers that fire errors in a tight loop get
// every one of them.
type Queue struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts []Toast
	timers map[string]*time.Timer
	sink   func(Toast)
	closed bool
}

// NewQueue creates a queue whose toasts expire after ttl. A non-positive ttl
// falls back to DefaultTTL.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// Notify registers a sink invoked synchronously for every added toast.
// The console uses this to print toasts as they happen.
func (q *Queue) Notify(sink func(Toast)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sink = sink
}

// Success appends a success toast and returns its id.
func (q *Queue) Success(body string) string {
	return q.add(body, SeveritySuccess)
}

// Error appends an error toast and returns its id.
func (q *Queue) Error(body string) string {
	return q.add(body, SeverityError)
}

func (q *Queue) add(body string, severity Severity) string {
	q.mu.Lock()

	if q.closed {
		q.mu.Unlock()
		return ""
	}

	toast := Toast{
		ID:        "toast-" + uuid.NewString(),
		Body:      body,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
	q.toasts = append(q.toasts, toast)

	// Each toast owns its expiry timer; explicit removal cancels it.
	q.timers[toast.ID] = time.AfterFunc(q.ttl, func() {
		q.Remove(toast.ID)
	})

	sink := q.sink
	q.mu.Unlock()

	if sink != nil {
		sink(toast)
	}
	return toast.ID
}

// Remove deletes a toast by id. Removing an id that is absent (already
// expired, already dismissed, or never issued) is a no-op.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}

// Toasts returns a snapshot of the queue in insertion order.
func (q *Queue) Toasts() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// Close stops all outstanding expiry timers. The queue accepts no further
// toasts afterwards.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
}
