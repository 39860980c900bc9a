// ABOUTME: Software passkey authenticator backed by the local credential vault
// ABOUTME: Generates ES256 keys and signs registration/login challenges

package authenticator

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/google/uuid"

	"github.com/hmdl/hmdl-console/internal/vault"
)

// SoftKey is a software authenticator: keys live in the local vault instead
// of a hardware token. It always reports user presence and verification -
// invoking the console at all is the user gesture.
type SoftKey struct {
	vault  *vault.Store
	origin string
	logger *slog.Logger
}

// NewSoftKey creates a software authenticator storing credentials in store.
// origin is the web origin the console authenticates against, e.g.
// "https://hmdl.example.com".
func NewSoftKey(store *vault.Store, origin string) *SoftKey {
	return &SoftKey{
		vault:  store,
		origin: origin,
		logger: slog.Default().With("component", "authenticator"),
	}
}

// Available reports whether the authenticator has a vault to keep keys in.
func (s *SoftKey) Available() bool {
	return s != nil && s.vault != nil
}

// Create mints a new ES256 credential for the relying party in opts and
// returns the registration response in wire form.
func (s *SoftKey) Create(ctx context.Context, username string, opts *protocol.CredentialCreation) (*protocol.CredentialCreationResponse, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rpID := opts.Response.RelyingParty.ID
	if rpID == "" {
		rpID = s.originHost()
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("encoding key: %w", err)
	}

	credentialID := newCredentialID()
	userHandle, err := decodeUserID(opts.Response.User.ID)
	if err != nil {
		return nil, fmt.Errorf("decoding user id: %w", err)
	}

	cred := &vault.Credential{
		ID:         base64.RawURLEncoding.EncodeToString(credentialID),
		RPID:       rpID,
		Username:   username,
		UserHandle: userHandle,
		PrivateKey: keyDER,
		SignCount:  0,
		CreatedAt:  time.Now(),
	}
	if err := s.vault.Put(ctx, cred); err != nil {
		return nil, fmt.Errorf("storing credential: %w", err)
	}

	clientDataJSON, err := buildClientDataJSON("webauthn.create", opts.Response.Challenge, s.origin)
	if err != nil {
		return nil, err
	}

	cosePub, err := encodeCOSEPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	attested := buildAttestedCredentialData(credentialID, cosePub)
	authData := buildAuthenticatorData(rpID, 0, attested)

	attObj, err := buildAttestationObject(authData)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created credential", "rp_id", rpID, "username", username, "credential_id", cred.ID)

	return &protocol.CredentialCreationResponse{
		PublicKeyCredential: protocol.PublicKeyCredential{
			Credential: protocol.Credential{
				ID:   cred.ID,
				Type: "public-key",
			},
			RawID: protocol.URLEncodedBase64(credentialID),
		},
		AttestationResponse: protocol.AuthenticatorAttestationResponse{
			AuthenticatorResponse: protocol.AuthenticatorResponse{
				ClientDataJSON: protocol.URLEncodedBase64(clientDataJSON),
			},
			AttestationObject: protocol.URLEncodedBase64(attObj),
		},
	}, nil
}

// Get signs the assertion challenge with a stored credential for the relying
// party in opts.
func (s *SoftKey) Get(ctx context.Context, username string, opts *protocol.CredentialAssertion) (*protocol.CredentialAssertionResponse, error) {
	if !s.Available() {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rpID := opts.Response.RelyingPartyID
	if rpID == "" {
		rpID = s.originHost()
	}

	cred, err := s.lookupCredential(ctx, rpID, username, opts.Response.AllowedCredentials)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParseECPrivateKey(cred.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decoding stored key: %w", err)
	}

	// The counter must move forward on every assertion.
	signCount := cred.SignCount + 1
	if err := s.vault.BumpSignCount(ctx, cred.ID, signCount); err != nil {
		return nil, fmt.Errorf("advancing sign count: %w", err)
	}

	clientDataJSON, err := buildClientDataJSON("webauthn.get", opts.Response.Challenge, s.origin)
	if err != nil {
		return nil, err
	}
	authData := buildAuthenticatorData(rpID, signCount, nil)

	clientDataHash := sha256.Sum256(clientDataJSON)
	digest := sha256.Sum256(append(authData, clientDataHash[:]...))
	signature, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return nil, fmt.Errorf("signing assertion: %w", err)
	}

	rawID, err := base64.RawURLEncoding.DecodeString(cred.ID)
	if err != nil {
		return nil, fmt.Errorf("decoding credential id: %w", err)
	}

	s.logger.Debug("produced assertion", "rp_id", rpID, "username", username, "sign_count", signCount)

	return &protocol.CredentialAssertionResponse{
		PublicKeyCredential: protocol.PublicKeyCredential{
			Credential: protocol.Credential{
				ID:   cred.ID,
				Type: "public-key",
			},
			RawID: protocol.URLEncodedBase64(rawID),
		},
		AssertionResponse: protocol.AuthenticatorAssertionResponse{
			AuthenticatorResponse: protocol.AuthenticatorResponse{
				ClientDataJSON: protocol.URLEncodedBase64(clientDataJSON),
			},
			AuthenticatorData: protocol.URLEncodedBase64(authData),
			Signature:         protocol.URLEncodedBase64(signature),
			UserHandle:        protocol.URLEncodedBase64(cred.UserHandle),
		},
	}, nil
}

// lookupCredential picks the stored credential matching the server's allow
// list, falling back to the newest credential for the relying party.
func (s *SoftKey) lookupCredential(ctx context.Context, rpID, username string, allowed []protocol.CredentialDescriptor) (*vault.Credential, error) {
	for _, desc := range allowed {
		id := base64.RawURLEncoding.EncodeToString(desc.CredentialID)
		cred, err := s.vault.Get(ctx, id)
		if err == nil {
			return cred, nil
		}
		if err != vault.ErrNotFound {
			return nil, fmt.Errorf("looking up credential: %w", err)
		}
	}

	cred, err := s.vault.GetByRP(ctx, rpID, username)
	if err == vault.ErrNotFound {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("looking up credential: %w", err)
	}
	return cred, nil
}

func (s *SoftKey) originHost() string {
	parsed, err := url.Parse(s.origin)
	if err != nil || parsed.Hostname() == "" {
		return s.origin
	}
	return parsed.Hostname()
}

// newCredentialID returns 16 bytes of fresh randomness.
func newCredentialID() []byte {
	id := uuid.New()
	return id[:]
}

// decodeUserID normalizes the user id from creation options. After JSON
// decoding it arrives as a base64url string; older servers send raw bytes.
func decodeUserID(id any) ([]byte, error) {
	switch v := id.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		if decoded, err := base64.RawURLEncoding.DecodeString(v); err == nil {
			return decoded, nil
		}
		if decoded, err := base64.StdEncoding.DecodeString(v); err == nil {
			return decoded, nil
		}
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported user id type %T", id)
	}
}
