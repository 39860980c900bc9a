// ABOUTME: Package documentation for notify
// ABOUTME: Explains toast semantics and lifetime

// Package notify implements the console's transient notification queue.
//
// Every completed asynchronous action - a save, a delete, a failed request -
// pushes a toast. Toasts keep insertion order, are never de-duplicated, and
// each one expires on its own after the queue's TTL (3 seconds by default)
// unless removed earlier by explicit dismissal.
//
// The queue owns its id generator, so two queues in the same process (or the
// same test binary) never hand out colliding ids.
package notify
