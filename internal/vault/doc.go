// ABOUTME: Package documentation for vault
// ABOUTME: Explains local credential persistence for the software authenticator

// Package vault stores the console's passkey credentials locally.
//
// A browser keeps WebAuthn keys inside the platform authenticator; the
// console's software authenticator needs its own home for them. The vault is
// a small SQLite database holding one row per credential: the EC private key
// (SEC 1 DER), the server-assigned user handle, and the signature counter
// that must increase monotonically across assertions.
//
// The database is created on first open with its schema bootstrapped
// automatically, mirroring how the rest of the HMDL tooling treats local
// state: zero-step provisioning, WAL journaling, and idempotent deletes.
package vault
