// Package registration keeps the set of tours each user signed up for.
package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// Set is a user's registered tour ids.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the ids in ascending order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Store loads and saves whole registration sets.
type Store interface {
	Load(ctx context.Context, userID int64) (Set, error)
	Save(ctx context.Context, userID int64, set Set) error
}

// FileStore keeps <dir>/<user_id>.json with a JSON array of tour ids.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(userID int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(userID, 10)+".json")
}

// Load reads the user's set. A missing or empty file is an empty set.
func (s *FileStore) Load(_ context.Context, userID int64) (Set, error) {
	b, err := os.ReadFile(s.path(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("registration: read: %w", err)
	}
	set := Set{}
	if len(b) == 0 {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil, fmt.Errorf("registration: decode %d: %w", userID, err)
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save writes the set. An empty set is kept as "[]" rather than deleted.
func (s *FileStore) Save(_ context.Context, userID int64, set Set) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("registration: mkdir: %w", err)
	}
	b, err := json.Marshal(set.IDs())
	if err != nil {
		return fmt.Errorf("registration: encode: %w", err)
	}
	tmp := s.path(userID) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("registration: write: %w", err)
	}
	if err := os.Rename(tmp, s.path(userID)); err != nil {
		return fmt.Errorf("registration: rename: %w", err)
	}
	return nil
}

// PostgresStore keeps one registrations row per (user, tour).
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load selects the user's tour ids.
func (s *PostgresStore) Load(ctx context.Context, userID int64) (Set, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT tour_id FROM registrations WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("registration: select: %w", err)
	}
	set := make(Set, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save replaces the user's rows in one transaction.
func (s *PostgresStore) Save(ctx context.Context, userID int64, set Set) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("registration: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM registrations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("registration: clear: %w", err)
	}
	for _, id := range set.IDs() {
		if _, err = tx.ExecContext(ctx, `INSERT INTO registrations (user_id, tour_id) VALUES ($1, $2)`, userID, id); err != nil {
			return fmt.Errorf("registration: insert %s: %w", id, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("registration: commit: %w", err)
	}
	return nil
}
