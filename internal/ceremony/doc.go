// ABOUTME: Package documentation for ceremony
// ABOUTME: Explains the register/login state machine and its collaborators

// Package ceremony orchestrates the WebAuthn register and login flows.
//
// Both flows are two server round trips with a local credential operation in
// between: start fetches a challenge, the authenticator answers it, finish
// submits the answer. Ceremony runs the three steps as one call, tracks
// progress through an explicit State, and enforces that only one ceremony is
// in flight at a time (a second start returns ErrInFlight).
//
// Outcomes are routed to the collaborators passed to New rather than through
// shared ambient state: a completed ceremony posts a success toast and
// invokes the navigate callback exactly once, and a completed registration
// additionally adopts the role the server granted; a failed ceremony resets
// to idle and posts exactly one error toast. Login's finish response carries
// no role - the caller reads it from the issued session token.
package ceremony
