// ABOUTME: Package documentation for authenticator
// ABOUTME: Explains the software passkey implementation and its wire formats

// Package authenticator is the console's stand-in for the browser's platform
// credential API.
//
// The HMDL server authenticates operators with WebAuthn. In a browser the
// create/get half of that ceremony is handled by the platform; a terminal
// console has to bring its own. SoftKey implements the same surface with
// ES256 keys kept in the local vault:
//
//   - Create generates a P-256 key pair, stores it, and answers with a
//     registration response carrying a "none"-format attestation object.
//   - Get signs authenticatorData || SHA-256(clientDataJSON) with the stored
//     key and a monotonically increasing signature counter.
//
// Both calls honor context cancellation, which maps to the user dismissing
// the credential prompt in the browser flow.
//
// The wire formats (client data JSON, authenticator data, COSE keys, CTAP2
// canonical CBOR) follow the WebAuthn Level 2 encoding rules; responses are
// expressed with go-webauthn's protocol structs so they marshal to exactly
// what a browser ponyfill would produce.
package authenticator
