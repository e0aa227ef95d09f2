// Package store persists encoded authorization managers to SQLite.
//
// The store is the host-application side of the auth package's persistence
// contract: it subscribes to a manager's change notifications and writes the
// encoded manager after every mutation, and restores a manager from its last
// saved snapshot at startup.
package store

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/auth"
	"github.com/desertthunder/tempo/internal/shared"
)

const schema = `
	CREATE TABLE IF NOT EXISTS credentials (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)
`

// CredentialStore persists named authorization snapshots.
//
// A name identifies one credential slot; applications that authorize against
// multiple flows (say, a user grant and an app-only grant) use one slot each.
type CredentialStore struct {
	db     *sql.DB
	logger *log.Logger
}

// NewCredentialStore creates a store over the given database connection,
// creating the credentials table if needed.
func NewCredentialStore(db *sql.DB, logger *log.Logger) (*CredentialStore, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create credentials table: %w", err)
	}

	return &CredentialStore{db: db, logger: logger}, nil
}

// Save writes an encoded credential snapshot under the given name,
// replacing any previous snapshot.
func (s *CredentialStore) Save(name string, data []byte) error {
	query := `
		INSERT INTO credentials (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`

	if _, err := s.db.Exec(query, name, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save credential %q: %w", name, err)
	}

	return nil
}

// Load reads the encoded snapshot stored under the given name.
// Wraps [shared.ErrNotFound] when no snapshot exists.
func (s *CredentialStore) Load(name string) ([]byte, error) {
	var data []byte

	err := s.db.QueryRow(`SELECT data FROM credentials WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: credential %q", shared.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential %q: %w", name, err)
	}

	return data, nil
}

// Delete removes the snapshot stored under the given name. Deleting a
// missing snapshot is not an error.
func (s *CredentialStore) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM credentials WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete credential %q: %w", name, err)
	}
	return nil
}

// Attach subscribes to the manager's change notifications and persists the
// encoded manager under the given name after every mutation. Persistence
// failures are logged, never surfaced into the authorization path.
func (s *CredentialStore) Attach(name string, m *auth.Manager) {
	m.OnChange(func(m *auth.Manager) {
		data, err := m.Encode()
		if err != nil {
			s.logger.Error("failed to encode credential", "name", name, "err", err)
			return
		}
		if err := s.Save(name, data); err != nil {
			s.logger.Error("failed to persist credential", "name", name, "err", err)
		}
	})
}

// Restore decodes the manager stored under the given name and re-attaches
// persistence, so subsequent mutations keep the snapshot current.
func (s *CredentialStore) Restore(name string, logger *log.Logger) (*auth.Manager, error) {
	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}

	m, err := auth.DecodeManager(data, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to restore credential %q: %w", name, err)
	}

	s.Attach(name, m)
	return m, nil
}
