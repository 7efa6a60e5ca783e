// Package redis implements the directory storage contract on Redis string
// values. Keys are stored verbatim.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/keydir/internal/model"
)

// redisAPI is the subset of *goredis.Client used by the store.
type redisAPI interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

var _ model.Backend = (*Store)(nil)

// Store is a Redis-backed document store.
type Store struct {
	api redisAPI
}

// Open connects to the server described by a redis:// or rediss:// URL and
// verifies the connection.
func Open(ctx context.Context, url string) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	s, err := NewWithAPI(ctx, client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// NewWithAPI wraps an existing client; used by tests to inject a fake.
func NewWithAPI(ctx context.Context, api redisAPI) (*Store, error) {
	if err := api.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Store{api: api}, nil
}

func (s *Store) Get(ctx context.Context, key string) (model.Document, bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return nil, false, err
	}

	data, err := s.api.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: redis get %q: %v", model.ErrStorage, key, err)
	}
	return data, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value model.Document) error {
	if err := model.ValidateKey(key); err != nil {
		return err
	}

	if err := s.api.Set(ctx, key, []byte(value), 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %q: %v", model.ErrStorage, key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := model.ValidateKey(key); err != nil {
		return false, err
	}

	n, err := s.api.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis del %q: %v", model.ErrStorage, key, err)
	}
	return n > 0, nil
}

func (s *Store) Close() error {
	return s.api.Close()
}
