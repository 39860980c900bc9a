// ABOUTME: Two-phase WebAuthn ceremony orchestration for register and login
// ABOUTME: Single in-flight ceremony, explicit state machine, toast feedback

package ceremony

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/hmdl/hmdl-console/internal/authenticator"
	"github.com/hmdl/hmdl-console/internal/notify"
	"github.com/hmdl/hmdl-console/internal/session"
)

// ErrInFlight is returned when a ceremony is started while another one has
// not finished. Only one ceremony runs at a time.
var ErrInFlight = errors.New("a credential ceremony is already in flight")

// State tracks where the current ceremony is. Transitions are linear:
// Idle -> ChallengeRequested -> AwaitingUserCredential -> FinishRequested ->
// Complete. Any failure resets to Idle.
type State int

const (
	StateIdle State = iota
	StateChallengeRequested
	StateAwaitingUserCredential
	StateFinishRequested
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChallengeRequested:
		return "challenge-requested"
	case StateAwaitingUserCredential:
		return "awaiting-user-credential"
	case StateFinishRequested:
		return "finish-requested"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// API is the slice of the management API a ceremony needs: the start/finish
// pairs for registration and login.
type API interface {
	RegisterStart(ctx context.Context, username string) (*protocol.CredentialCreation, error)
	RegisterFinish(ctx context.Context, cred *protocol.CredentialCreationResponse) (session.Role, error)
	LoginStart(ctx context.Context, username string) (*protocol.CredentialAssertion, error)
	LoginFinish(ctx context.Context, cred *protocol.CredentialAssertionResponse) error
}

// Ceremony drives the two-phase WebAuthn flows against the server, using an
// authenticator for the credential half. On success it updates the session
// role, posts a success toast, and navigates home exactly once.
type Ceremony struct {
	api      API
	auth     authenticator.Authenticator
	roles    *session.RoleStore
	toasts   *notify.Queue
	navigate func(target string)
	logger   *slog.Logger

	mu    sync.Mutex
	state State
}

// New wires a ceremony to its collaborators. navigate is called with the
// post-ceremony destination; pass a no-op when there is nowhere to go.
func New(api API, auth authenticator.Authenticator, roles *session.RoleStore, toasts *notify.Queue, navigate func(string)) *Ceremony {
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Ceremony{
		api:      api,
		auth:     auth,
		roles:    roles,
		toasts:   toasts,
		navigate: navigate,
		logger:   slog.Default().With("component", "ceremony"),
	}
}

// State returns the current ceremony state.
func (c *Ceremony) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Register runs the full registration ceremony for username: fetch creation
// options, mint a credential, submit it, and adopt the granted role.
func (c *Ceremony) Register(ctx context.Context, username string) (session.Role, error) {
	if err := c.begin(); err != nil {
		return session.RoleAnonymous, err
	}

	opts, err := c.api.RegisterStart(ctx, username)
	if err != nil {
		return session.RoleAnonymous, c.fail("Registration failed", fmt.Errorf("requesting registration challenge: %w", err))
	}

	c.setState(StateAwaitingUserCredential)
	cred, err := c.auth.Create(ctx, username, opts)
	if err != nil {
		return session.RoleAnonymous, c.fail("Registration failed", fmt.Errorf("creating credential: %w", err))
	}

	c.setState(StateFinishRequested)
	role, err := c.api.RegisterFinish(ctx, cred)
	if err != nil {
		return session.RoleAnonymous, c.fail("Registration failed", fmt.Errorf("finishing registration: %w", err))
	}

	c.complete(role, "Registration complete")
	return role, nil
}

// Login runs the full login ceremony for username: fetch assertion options,
// sign the challenge, and submit it. The finish response carries no role; the
// caller reads it from the session token the server issues.
func (c *Ceremony) Login(ctx context.Context, username string) error {
	if err := c.begin(); err != nil {
		return err
	}

	opts, err := c.api.LoginStart(ctx, username)
	if err != nil {
		return c.fail("Login failed", fmt.Errorf("requesting login challenge: %w", err))
	}

	c.setState(StateAwaitingUserCredential)
	cred, err := c.auth.Get(ctx, username, opts)
	if err != nil {
		return c.fail("Login failed", fmt.Errorf("signing login challenge: %w", err))
	}

	c.setState(StateFinishRequested)
	if err := c.api.LoginFinish(ctx, cred); err != nil {
		return c.fail("Login failed", fmt.Errorf("finishing login: %w", err))
	}

	c.setState(StateComplete)
	c.toasts.Success("Login complete")
	c.navigate("/")
	c.logger.Info("ceremony complete")
	return nil
}

// begin claims the single ceremony slot.
func (c *Ceremony) begin() error {
	if !c.auth.Available() {
		return authenticator.ErrUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle && c.state != StateComplete {
		return ErrInFlight
	}
	c.state = StateChallengeRequested
	return nil
}

func (c *Ceremony) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// fail resets to Idle and posts exactly one error toast. The returned error
// carries the cause for the caller; the toast carries only the headline.
func (c *Ceremony) fail(headline string, err error) error {
	c.setState(StateIdle)
	c.toasts.Error(headline)
	c.logger.Warn("ceremony failed", "error", err)
	return err
}

// complete adopts the granted role, announces success, and navigates home.
func (c *Ceremony) complete(role session.Role, headline string) {
	c.roles.Set(role)
	c.setState(StateComplete)
	c.toasts.Success(headline)
	c.navigate("/")
	c.logger.Info("ceremony complete", "role", role)
}
