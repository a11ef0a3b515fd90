package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memebin/service/internal/storage"
)

func TestMemoryStorage(t *testing.T) {
	store := storage.NewMemoryStorage("http://localhost:9000/memes/")
	ctx := context.Background()
	testKey := "abc-cat.jpg"
	testData := "pretend these are jpeg bytes"

	t.Run("Upload", func(t *testing.T) {
		err := store.Upload(ctx, testKey, strings.NewReader(testData), int64(len(testData)), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("Get", func(t *testing.T) {
		data, err := store.Get(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("Get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-key")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("Upload overwrites", func(t *testing.T) {
		err := store.Upload(ctx, testKey, strings.NewReader("replaced"), 8, "image/jpeg")
		require.NoError(t, err)

		data, err := store.Get(ctx, testKey)
		require.NoError(t, err)
		assert.Equal(t, "replaced", string(data))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("ListKeys", func(t *testing.T) {
		require.NoError(t, store.Upload(ctx, "zzz-dog.png", strings.NewReader("dog"), 3, "image/png"))

		var keys []string
		err := store.ListKeys(ctx, func(key string) error {
			keys = append(keys, key)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{testKey, "zzz-dog.png"}, keys)
	})

	t.Run("PublicURL trims trailing slash", func(t *testing.T) {
		assert.Equal(t, "http://localhost:9000/memes/"+testKey, store.PublicURL(testKey))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, testKey))
		_, err := store.Get(ctx, testKey)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("Delete missing key succeeds", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "already-gone"))
	})
}
