package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is a JSON value stored under one key.
type Document = json.RawMessage

// Backend is the key-value contract every storage medium implements.
//
// Get reports a missing key as ok == false with a nil error. Set must be
// durable before it returns. Delete is idempotent and reports whether a
// document was actually removed.
type Backend interface {
	Get(ctx context.Context, key string) (value Document, ok bool, err error)
	Set(ctx context.Context, key string, value Document) error
	Delete(ctx context.Context, key string) (removed bool, err error)
	Close() error
}

// ValidateKey rejects keys that cannot be stored safely by every backend.
// The filesystem backend maps keys to file names, so separators, NUL and the
// dot entries would escape or alias the storage root.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	case key == "." || key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case strings.ContainsAny(key, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidKey, key)
	}
	return nil
}
