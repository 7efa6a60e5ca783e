// Package bolt implements the directory storage contract in a single BoltDB
// file.
package bolt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/dtroode/keydir/internal/model"
)

const documentsBucket = "documents"

var _ model.Backend = (*Store)(nil)

// Store is a BoltDB-backed document store.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path. Parent directories are
// created as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := model.ValidateKey(key); err != nil {
		return nil, false, err
	}

	var doc model.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentsBucket))
		if bucket == nil {
			return fmt.Errorf("documents bucket is missing")
		}
		// values are only valid for the life of the transaction
		if payload := bucket.Get([]byte(key)); payload != nil {
			doc = bytes.Clone(payload)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %q: %v", model.ErrStorage, key, err)
	}

	return doc, doc != nil, nil
}

func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := model.ValidateKey(key); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentsBucket))
		if bucket == nil {
			return fmt.Errorf("documents bucket is missing")
		}
		// bolt rejects nil values
		payload := []byte(value)
		if payload == nil {
			payload = []byte{}
		}
		return bucket.Put([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("%w: set %q: %v", model.ErrStorage, key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := model.ValidateKey(key); err != nil {
		return false, err
	}

	var removed bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentsBucket))
		if bucket == nil {
			return fmt.Errorf("documents bucket is missing")
		}
		if bucket.Get([]byte(key)) == nil {
			return nil
		}
		removed = true
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return false, fmt.Errorf("%w: delete %q: %v", model.ErrStorage, key, err)
	}
	return removed, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(documentsBucket)); err != nil {
			return fmt.Errorf("create documents bucket: %w", err)
		}
		return nil
	})
}
