// ABOUTME: Authenticator interface consumed by the credential ceremonies
// ABOUTME: Mirrors the browser credential API surface (create/get + capability check)

package authenticator

import (
	"context"
	"errors"

	"github.com/go-webauthn/webauthn/protocol"
)

// Authenticator errors
var (
	// ErrUnavailable means no authenticator capability exists at all - the
	// fatal precondition checked before any auth surface is offered.
	ErrUnavailable = errors.New("no authenticator available")

	// ErrNoCredential means an assertion was requested for a relying party
	// or user this authenticator holds no key for.
	ErrNoCredential = errors.New("no matching credential")
)

// Authenticator produces WebAuthn credentials and assertions. Create and Get
// may suspend for as long as the user (or policy) takes to approve; both
// honor context cancellation as the cancel path.
type Authenticator interface {
	// Available reports whether the authenticator can be used at all.
	// Checked once before the auth surface is shown.
	Available() bool

	// Create mints a new credential for the creation options and returns the
	// registration response in wire form.
	Create(ctx context.Context, username string, opts *protocol.CredentialCreation) (*protocol.CredentialCreationResponse, error)

	// Get signs the assertion challenge with an existing credential.
	Get(ctx context.Context, username string, opts *protocol.CredentialAssertion) (*protocol.CredentialAssertionResponse, error)
}
