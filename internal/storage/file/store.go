// Package file implements the directory storage contract on a local
// directory: every key is one file named after the key inside the root.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtroode/keydir/internal/model"
)

const tempPattern = ".keydir-*.tmp"

var _ model.Backend = (*Store)(nil)

// Store is a filesystem-backed document store.
type Store struct {
	root string
}

// New creates a store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	return &Store{root: filepath.Clean(dir)}, nil
}

// Root returns the storage directory.
func (s *Store) Root() string {
	return s.root
}

// Get reads the document stored under key.
func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: read %q: %v", model.ErrStorage, key, err)
	}

	return data, true, nil
}

// Set writes the document atomically: the data goes to a temporary file in
// the root which is fsynced and renamed over the target, then the directory
// entry is fsynced.
func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.ensureRoot(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, tempPattern)
	if err != nil {
		return fmt.Errorf("%w: create temp file for %q: %v", model.ErrStorage, key, err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %q: %v", model.ErrStorage, key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync %q: %v", model.ErrStorage, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %q: %v", model.ErrStorage, key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename %q: %v", model.ErrStorage, key, err)
	}

	return s.syncRoot()
}

// Delete removes the file stored under key.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := s.path(key)
	if err != nil {
		return false, err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: remove %q: %v", model.ErrStorage, key, err)
	}

	return true, s.syncRoot()
}

// Close is a no-op; the store holds no open handles.
func (s *Store) Close() error {
	return nil
}

// ensureRoot creates the root directory if it doesn't exist. MkdirAll
// succeeds when another goroutine or process created it first.
func (s *Store) ensureRoot() error {
	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return fmt.Errorf("%w: create storage root: %v", model.ErrStorage, err)
	}
	return nil
}

func (s *Store) syncRoot() error {
	dir, err := os.Open(s.root)
	if err != nil {
		return fmt.Errorf("%w: open storage root: %v", model.ErrStorage, err)
	}
	defer dir.Close()

	if err := dir.Sync(); err != nil {
		return fmt.Errorf("%w: sync storage root: %v", model.ErrStorage, err)
	}
	return nil
}

func (s *Store) path(key string) (string, error) {
	if err := model.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, key), nil
}
