// ABOUTME: SQLite-backed storage for software authenticator credentials
// ABOUTME: Holds per-relying-party key pairs and sign counters

package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no credential matches a lookup.
var ErrNotFound = errors.New("credential not found")

// Credential is a stored passkey: the private key plus the bookkeeping the
// WebAuthn ceremonies need.
type Credential struct {
	ID         string // base64url credential id, as sent on the wire
	RPID       string
	Username   string
	UserHandle []byte // server-assigned user id, echoed on assertions
	PrivateKey []byte // EC private key, SEC 1 DER
	SignCount  uint32
	CreatedAt  time.Time
}

// Store persists credentials in a local SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the vault at the given path. Parent directories are
// created if needed and the schema is bootstrapped automatically.
func Open(path string) (*Store, error) {
	logger := slog.Default().With("component", "vault")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	// WAL mode for better concurrent behavior
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("vault opened", "path", path)
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS credentials (
			id TEXT PRIMARY KEY,
			rp_id TEXT NOT NULL,
			username TEXT NOT NULL,
			user_handle BLOB NOT NULL,
			private_key BLOB NOT NULL,
			sign_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_credentials_rp
			ON credentials(rp_id, username);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a credential, replacing any previous one with the same id.
func (s *Store) Put(ctx context.Context, cred *Credential) error {
	query := `
		INSERT OR REPLACE INTO credentials
			(id, rp_id, username, user_handle, private_key, sign_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		cred.ID,
		cred.RPID,
		cred.Username,
		cred.UserHandle,
		cred.PrivateKey,
		cred.SignCount,
		cred.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	s.logger.Debug("stored credential", "id", cred.ID, "rp_id", cred.RPID, "username", cred.Username)
	return nil
}

// Get returns the credential with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Credential, error) {
	query := `
		SELECT id, rp_id, username, user_handle, private_key, sign_count, created_at
		FROM credentials WHERE id = ?
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// GetByRP returns the most recently created credential for a relying party
// and username, or ErrNotFound.
func (s *Store) GetByRP(ctx context.Context, rpID, username string) (*Credential, error) {
	query := `
		SELECT id, rp_id, username, user_handle, private_key, sign_count, created_at
		FROM credentials
		WHERE rp_id = ? AND username = ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, rpID, username))
}

// List returns all stored credentials ordered by creation time.
func (s *Store) List(ctx context.Context) ([]*Credential, error) {
	query := `
		SELECT id, rp_id, username, user_handle, private_key, sign_count, created_at
		FROM credentials
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}
	defer rows.Close()

	var creds []*Credential
	for rows.Next() {
		cred, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, cred)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credentials: %w", err)
	}

	if creds == nil {
		creds = []*Credential{}
	}
	return creds, nil
}

// Delete removes a credential by id. Deleting an absent id succeeds silently.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}
	return nil
}

// BumpSignCount records a new signature counter value for a credential.
func (s *Store) BumpSignCount(ctx context.Context, id string, count uint32) error {
	res, err := s.db.ExecContext(ctx, `UPDATE credentials SET sign_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return fmt.Errorf("updating sign count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating sign count: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOne(row *sql.Row) (*Credential, error) {
	cred, err := scanCredential(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cred, err
}

func scanCredential(row rowScanner) (*Credential, error) {
	var cred Credential
	var createdAt string

	err := row.Scan(
		&cred.ID,
		&cred.RPID,
		&cred.Username,
		&cred.UserHandle,
		&cred.PrivateKey,
		&cred.SignCount,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning credential: %w", err)
	}

	cred.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &cred, nil
}
