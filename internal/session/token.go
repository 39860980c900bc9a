// ABOUTME: Session token persistence and client-side inspection
// ABOUTME: Stores the server-issued session JWT and decodes its claims for display

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrNoSession      = errors.New("no session")
	ErrSessionExpired = errors.New("session expired")
)

// Claims holds the subset of session token claims the console cares about.
// The server is the verifier; the console only reads them for display and
// expiry checks.
type Claims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// TokenFile persists the server session token between console invocations.
type TokenFile struct {
	path string
}

// NewTokenFile creates a token file handle at the given path.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

// Save writes the session token to disk, creating parent directories.
// The file is user-readable only.
func (t *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(t.path, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing session token: %w", err)
	}
	return nil
}

// Load reads the stored session token. Returns ErrNoSession if none exists.
func (t *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("reading session token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

// Clear removes the stored session token. Clearing an absent token is a no-op.
func (t *TokenFile) Clear() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session token: %w", err)
	}
	return nil
}

// Inspect decodes the claims of a session token without verifying its
// signature. Verification is the server's job; the console has no secret.
// Returns ErrSessionExpired when the exp claim has passed.
func Inspect(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("decoding session token: %w", err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("decoding session token: unexpected claims type")
	}

	claims := &Claims{}

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if roleStr, ok := mapClaims["role"].(string); ok {
		if role, err := ParseRole(roleStr); err == nil {
			claims.Role = role
		}
	}
	if claims.Role == "" {
		claims.Role = RoleAnonymous
	}

	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
		if time.Now().After(claims.ExpiresAt) {
			return claims, ErrSessionExpired
		}
	}

	return claims, nil
}
