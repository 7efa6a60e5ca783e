// Package sqlite implements the directory storage contract in a single
// SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dtroode/keydir/internal/model"
)

const (
	schema = `CREATE TABLE IF NOT EXISTS documents (
    key   TEXT PRIMARY KEY,
    value BLOB NOT NULL
)`
	getQuery    = `SELECT value FROM documents WHERE key = ?`
	upsertQuery = `INSERT INTO documents (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteQuery = `DELETE FROM documents WHERE key = ?`
)

var _ model.Backend = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := New(db)
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// New wraps an open database handle whose schema is already in place.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, getQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: get %q: %v", model.ErrStorage, key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := model.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertQuery, key, []byte(value)); err != nil {
		return fmt.Errorf("%w: set %q: %v", model.ErrStorage, key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, deleteQuery, key)
	if err != nil {
		return false, fmt.Errorf("%w: delete %q: %v", model.ErrStorage, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: delete %q: %v", model.ErrStorage, key, err)
	}
	return n > 0, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}
