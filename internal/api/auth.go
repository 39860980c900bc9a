// ABOUTME: WebAuthn registration and login endpoints
// ABOUTME: Two-phase start/finish calls carrying go-webauthn protocol payloads

package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/hmdl/hmdl-console/internal/session"
)

type usernameRequest struct {
	Username string `json:"username"`
}

type registerFinishRequest struct {
	RegPubCred *protocol.CredentialCreationResponse `json:"reg_pub_cred"`
}

type loginFinishRequest struct {
	PubCred *protocol.CredentialAssertionResponse `json:"pub_cred"`
}

// RegisterStart asks the server for credential creation options for username.
func (c *Client) RegisterStart(ctx context.Context, username string) (*protocol.CredentialCreation, error) {
	var opts protocol.CredentialCreation
	if err := c.post(ctx, usernameRequest{Username: username}, &opts, "api", "auth", "register_start"); err != nil {
		return nil, err
	}
	return &opts, nil
}

// RegisterFinish submits the authenticator's registration response. On
// success the server issues a session cookie and answers with the role it
// granted: the first registered user becomes Admin, later ones Registered.
func (c *Client) RegisterFinish(ctx context.Context, cred *protocol.CredentialCreationResponse) (session.Role, error) {
	var raw json.RawMessage
	if err := c.post(ctx, registerFinishRequest{RegPubCred: cred}, &raw, "api", "auth", "register_finish"); err != nil {
		return session.RoleAnonymous, err
	}
	return decodeRole(raw)
}

// LoginStart asks the server for assertion options for username.
func (c *Client) LoginStart(ctx context.Context, username string) (*protocol.CredentialAssertion, error) {
	var opts protocol.CredentialAssertion
	if err := c.post(ctx, usernameRequest{Username: username}, &opts, "api", "auth", "login_start"); err != nil {
		return nil, err
	}
	return &opts, nil
}

// LoginFinish submits the signed assertion. On success the server issues a
// session cookie; unlike register_finish, the response carries no role. The
// caller learns the role from the session token claims.
func (c *Client) LoginFinish(ctx context.Context, cred *protocol.CredentialAssertionResponse) error {
	return c.post(ctx, loginFinishRequest{PubCred: cred}, nil, "api", "auth", "login_finish")
}

// decodeRole accepts the two shapes the finish endpoints answer with: a bare
// JSON string, or an object with a "role" field.
func decodeRole(raw json.RawMessage) (session.Role, error) {
	if len(raw) == 0 {
		return session.RoleAnonymous, nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		var wrapped struct {
			Role string `json:"role"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return session.RoleAnonymous, fmt.Errorf("decoding role: %w", err)
		}
		name = wrapped.Role
	}

	role, err := session.ParseRole(name)
	if err != nil {
		return session.RoleAnonymous, err
	}
	return role, nil
}
