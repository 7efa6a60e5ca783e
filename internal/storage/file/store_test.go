package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/keydir/internal/model"
	"github.com/dtroode/keydir/internal/storage/storagetest"
)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) model.Backend {
		s, err := New(filepath.Join(t.TempDir(), "data"))
		require.NoError(t, err)
		return s
	})
}

func TestNew_EmptyRoot(t *testing.T) {
	s, err := New("  ")
	assert.Nil(t, s)
	assert.Error(t, err)
}

func TestStore_Layout(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(root)
	require.NoError(t, err)

	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err), "root must not be created before the first write")

	require.NoError(t, s.Set(ctx, "user:abc", model.Document(`{"uuid":"abc"}`)))
	require.NoError(t, s.Set(ctx, "keys", model.Document(`{}`)))

	data, err := os.ReadFile(filepath.Join(root, "user:abc"))
	require.NoError(t, err)
	assert.Equal(t, `{"uuid":"abc"}`, string(data))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"user:abc", "keys"}, names, "no temp files left behind")
}

func TestStore_TraversalStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	s, err := New(filepath.Join(parent, "data"))
	require.NoError(t, err)

	err = s.Set(ctx, "../outside", model.Document(`{}`))
	require.ErrorIs(t, err, model.ErrInvalidKey)

	_, err = os.Stat(filepath.Join(parent, "outside"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_GetReturnsRawBytes(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "user:bad"), []byte("not json"), 0o600))

	doc, ok, err := s.Get(ctx, "user:bad")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "not json", string(doc))
}

func TestStore_GetIOError(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	// a directory where a document is expected cannot be read as a file
	require.NoError(t, os.Mkdir(filepath.Join(root, "user:dir"), 0o750))

	_, _, err = s.Get(ctx, "user:dir")
	assert.ErrorIs(t, err, model.ErrStorage)
}

func TestStore_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "fresh")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := New(root)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, s.Set(ctx, "keys", model.Document(`{}`)))
		}()
	}
	wg.Wait()

	_, err := os.Stat(filepath.Join(root, "keys"))
	assert.NoError(t, err)
}
