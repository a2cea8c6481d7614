// Package storage is the durable side of the engine: one sqlite database
// holding the serialized AppState per owner. The engine only needs
// load/save with last-write-wins semantics; everything else (WAL,
// migrations) is local discipline.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danbi/ebbing/internal/types"
	_ "modernc.org/sqlite"
)

// migration is a numbered schema change. Migrations are applied in order
// and tracked in the schema_migrations table so each runs exactly once.
type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS app_states (
    owner       TEXT PRIMARY KEY,
    payload     BLOB NOT NULL,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	},
	{
		Version:     2,
		Description: "track save counts per owner",
		SQL:         `ALTER TABLE app_states ADD COLUMN save_count INTEGER NOT NULL DEFAULT 0;`,
	},
}

// OpenDB opens (or creates) the sqlite database at the given path. It
// creates parent directories if needed, enables foreign keys and WAL mode,
// and runs any pending migrations.
func OpenDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version     INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if exists > 0 {
			continue
		}
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := db.Exec(
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// DefaultDBPath returns the default database file path:
// ~/.local/share/ebbing/ebbing.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ebbing", "ebbing.db"), nil
}

// Store reads and writes owner-keyed AppState payloads.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load fetches the state saved for the owner. A missing row is not an
// error; it returns (nil, nil) so the caller can fall back to defaults.
func (s *Store) Load(ctx context.Context, owner string) (*types.AppState, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM app_states WHERE owner = ?", owner,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query state for %q: %w", owner, err)
	}

	var state types.AppState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode state for %q: %w", owner, err)
	}
	return &state, nil
}

// Save upserts the owner's state. Last write wins.
func (s *Store) Save(ctx context.Context, owner string, state types.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state for %q: %w", owner, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_states (owner, payload, updated_at, save_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(owner) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at,
			save_count = app_states.save_count + 1`,
		owner, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save state for %q: %w", owner, err)
	}
	return nil
}

// SaveCount returns how many times the owner's state has been written.
func (s *Store) SaveCount(ctx context.Context, owner string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT save_count FROM app_states WHERE owner = ?", owner,
	).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query save count for %q: %w", owner, err)
	}
	return n, nil
}
