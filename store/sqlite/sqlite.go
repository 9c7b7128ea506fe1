/*
Package sqlite provides a SQLite-backed implementation of groups.Store.

PURPOSE:
  Persists the recent-groups cache across server restarts. The serve
  command opens this store when --db (or BILLSPLIT_DB) points at a file;
  without it the in-memory store is used and groups vanish on exit.

SCHEMA:
  groups: one row per distinct name list, keyed by the comma-joined
  names. A monotonically increasing id orders rows by recency, so a
  refresh is a delete + insert rather than an in-place update.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/billsplit.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - groups/groups.go: Interface definition and in-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/billsplit/groups"
)

// Store implements groups.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Recent participant groups, newest = highest id
	CREATE TABLE IF NOT EXISTS groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		names TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_groups_id_desc ON groups(id DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save records names as the most recent group. Saving a cached list
// refreshes its recency; at most groups.MaxRecent rows are kept.
func (s *Store) Save(ctx context.Context, names []string) error {
	if len(names) < 2 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.Join(names, ",")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Delete + insert so the refreshed group gets a new id and sorts newest.
	if _, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE names = ?", key); err != nil {
		return fmt.Errorf("failed to refresh group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (names, created_at) VALUES (?, ?)",
		key, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	// Evict everything beyond the cap, oldest first.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM groups WHERE id NOT IN (
			SELECT id FROM groups ORDER BY id DESC LIMIT ?
		)`, groups.MaxRecent)
	if err != nil {
		return fmt.Errorf("failed to evict old groups: %w", err)
	}

	return tx.Commit()
}

// Recent returns up to limit groups, newest first.
// limit <= 0 returns everything cached.
func (s *Store) Recent(ctx context.Context, limit int) ([]groups.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as "no limit"
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT names, created_at FROM groups ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var result []groups.Group
	for rows.Next() {
		var names, createdAt string
		if err := rows.Scan(&names, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse group timestamp: %w", err)
		}
		result = append(result, groups.Group{
			Names:     strings.Split(names, ","),
			CreatedAt: t,
		})
	}
	return result, rows.Err()
}
