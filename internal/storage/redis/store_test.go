package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keydir/internal/model"
)

// fakeRedis implements redisAPI for testing without a server.
type fakeRedis struct {
	docs    map[string][]byte
	pingErr error
	opErr   error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{docs: map[string][]byte{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.opErr != nil {
		return goredis.NewStringResult("", f.opErr)
	}
	v, ok := f.docs[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	if f.opErr != nil {
		return goredis.NewStatusResult("", f.opErr)
	}
	f.docs[key] = value.([]byte)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	if f.opErr != nil {
		return goredis.NewIntResult(0, f.opErr)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.docs[k]; ok {
			delete(f.docs, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(_ context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", f.pingErr)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestNewWithAPI_PingError(t *testing.T) {
	api := newFakeRedis()
	api.pingErr = errors.New("refused")

	s, err := NewWithAPI(context.Background(), api)
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "failed to ping redis")
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeRedis()
	s, err := NewWithAPI(ctx, api)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "keys")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "keys", model.Document(`{"pk":"u1"}`)))
	doc, ok, err := s.Get(ctx, "keys")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"pk":"u1"}`, string(doc))

	removed, err := s.Delete(ctx, "keys")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, "keys")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.Close())
	assert.True(t, api.closed)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	api := newFakeRedis()
	s, err := NewWithAPI(ctx, api)
	require.NoError(t, err)
	api.opErr = errors.New("connection reset")

	_, _, err = s.Get(ctx, "keys")
	assert.ErrorIs(t, err, model.ErrStorage)

	err = s.Set(ctx, "keys", model.Document(`{}`))
	assert.ErrorIs(t, err, model.ErrStorage)

	_, err = s.Delete(ctx, "keys")
	assert.ErrorIs(t, err, model.ErrStorage)

	err = s.Set(ctx, "../keys", model.Document(`{}`))
	assert.ErrorIs(t, err, model.ErrInvalidKey)
}

func TestOpen_BadURL(t *testing.T) {
	s, err := Open(context.Background(), "http://localhost:6379")
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "failed to parse redis url")
}
