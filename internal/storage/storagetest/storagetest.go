// Package storagetest provides a conformance suite for model.Backend
// implementations.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keydir/internal/model"
)

// Factory returns a fresh, empty backend. Implementations register cleanup
// through t.
type Factory func(t *testing.T) model.Backend

// Run exercises the storage contract against backends built by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		b := newBackend(t)
		doc, ok, err := b.Get(context.Background(), "user:missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, doc)
	})

	t.Run("set then get", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		require.NoError(t, b.Set(ctx, "user:1", model.Document(`{"uuid":"1","pubKey":"pk","hash":"h"}`)))

		doc, ok, err := b.Get(ctx, "user:1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"uuid":"1","pubKey":"pk","hash":"h"}`, string(doc))
	})

	t.Run("set overwrites", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		require.NoError(t, b.Set(ctx, "keys", model.Document(`{"a":"1"}`)))
		require.NoError(t, b.Set(ctx, "keys", model.Document(`{"a":"2"}`)))

		doc, ok, err := b.Get(ctx, "keys")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `{"a":"2"}`, string(doc))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		require.NoError(t, b.Set(ctx, "user:2", model.Document(`{}`)))

		removed, err := b.Delete(ctx, "user:2")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = b.Delete(ctx, "user:2")
		require.NoError(t, err)
		assert.False(t, removed)

		_, ok, err := b.Get(ctx, "user:2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects path-hostile keys", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		for _, key := range []string{"", "..", "../escape", "a/b"} {
			err := b.Set(ctx, key, model.Document(`{}`))
			assert.ErrorIs(t, err, model.ErrInvalidKey, key)

			_, _, err = b.Get(ctx, key)
			assert.ErrorIs(t, err, model.ErrInvalidKey, key)

			_, err = b.Delete(ctx, key)
			assert.ErrorIs(t, err, model.ErrInvalidKey, key)
		}
	})

	t.Run("concurrent writers on distinct keys", func(t *testing.T) {
		ctx := context.Background()
		b := newBackend(t)

		const n = 16
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("user:%d", i)
				assert.NoError(t, b.Set(ctx, key, model.Document(fmt.Sprintf(`{"n":%d}`, i))))
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			doc, ok, err := b.Get(ctx, fmt.Sprintf("user:%d", i))
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, fmt.Sprintf(`{"n":%d}`, i), string(doc))
		}
	})
}
