// Package memory implements the directory storage contract in process
// memory. Data does not survive a restart.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/dtroode/keydir/internal/model"
)

var _ model.Backend = (*Store)(nil)

// Store is a map-backed document store safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := model.ValidateKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(doc), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := model.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key] = bytes.Clone(value)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := model.ValidateKey(key); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[key]; !ok {
		return false, nil
	}
	delete(s.docs, key)
	return true, nil
}

func (s *Store) Close() error {
	return nil
}
