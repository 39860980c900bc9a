// ABOUTME: Package documentation for readiness
// ABOUTME: Explains the bounded poll state machine and its two console uses

// Package readiness implements bounded polling of an external condition.
//
// The console gates on two such conditions before anything else works: the
// backend answering its health endpoint at all, and - after first-run setup -
// the server finishing TLS certificate issuance, which can take minutes.
//
// # State machine
//
// A Poller is Pending until a probe reports ready (terminal StatusReady) or
// the attempt budget is exhausted (terminal StatusFailed). Probe errors are
// retried like pending results rather than failing fast; transient network
// noise during startup is the expected case, not the exceptional one.
//
// Tick advances the machine one step and is safe to drive from a test loop.
// Run owns a ticker and drives Tick until a terminal state or cancellation;
// cancelling the context guarantees no tick fires afterwards.
//
// # Single flight
//
// A slow probe never overlaps the next one: ticks that land while a probe is
// in flight are skipped, not queued.
package readiness
