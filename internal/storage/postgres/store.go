// Package postgres implements the directory storage contract on a single
// PostgreSQL table of JSONB documents.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dtroode/keydir/internal/model"
)

const (
	getQuery    = `SELECT value FROM documents WHERE key = $1`
	upsertQuery = `INSERT INTO documents (key, value, updated_at) VALUES ($1, $2, now())
			  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteQuery = `DELETE FROM documents WHERE key = $1`
)

// querier is the subset of *pgxpool.Pool used by the store.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ model.Backend = (*Store)(nil)

// Store is a PostgreSQL-backed document store.
type Store struct {
	db    querier
	close func()
}

// Open connects to dsn, applies migrations and returns a ready store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := Migrate(ctx, dsn); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Store{db: pool, close: pool.Close}, nil
}

func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.QueryRow(ctx, getQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: failed to get document %q: %v", model.ErrStorage, key, err)
	}

	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := model.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.db.Exec(ctx, upsertQuery, key, string(value)); err != nil {
		return fmt.Errorf("%w: failed to set document %q: %v", model.ErrStorage, key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return false, err
	}

	tag, err := s.db.Exec(ctx, deleteQuery, key)
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete document %q: %v", model.ErrStorage, key, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
