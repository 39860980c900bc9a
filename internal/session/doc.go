// ABOUTME: Package documentation for session
// ABOUTME: Explains role tracking and session token handling

// Package session tracks who the console is acting as.
//
// # Role
//
// A session has exactly one role: Anonymous, Registered, or Admin. The
// RoleStore starts as Anonymous and is overwritten only when a credential
// ceremony completes and the server reports the assigned role. The role is
// deliberately not persisted; each console process starts over as Anonymous
// until a stored session token proves otherwise.
//
// # Session token
//
// After a successful login the server issues a session token (a JWT).
// TokenFile persists it so later commands can authenticate without running
// another ceremony. Inspect decodes the claims client-side without signature
// verification - the console has no signing secret and never needs one; the
// server rejects tampered tokens on its own.
//
// # Usage
//
//	roles := session.NewRoleStore()
//	roles.IsAdmin() // false until a ceremony sets RoleAdmin
//
//	tf := session.NewTokenFile(path)
//	if tok, err := tf.Load(); err == nil {
//	    claims, err := session.Inspect(tok)
//	    ...
//	}
package session
