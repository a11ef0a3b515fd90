package meme

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memebin/service/internal/storage"
)

func newTestService() (*Service, *fakeStore, *storage.MemoryStorage) {
	store := newFakeStore()
	blobs := storage.NewMemoryStorage("http://localhost:9000/memes")
	return NewService(store, blobs), store, blobs
}

func upload(t *testing.T, svc *Service, name, content string) *Meme {
	t.Helper()
	m, err := svc.Upload(context.Background(), name, nil, &FileUpload{
		Filename: name,
		Reader:   strings.NewReader(content),
		Size:     int64(len(content)),
	})
	require.NoError(t, err)
	return m
}

func TestUploadGetRoundTrip(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()
	content := "not actually a jpeg"

	desc := "grumpy cat"
	created, err := svc.Upload(ctx, "grumpy cat.jpg", &desc, &FileUpload{
		Filename: "grumpy cat.jpg",
		Reader:   strings.NewReader(content),
		Size:     int64(len(content)),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "image/jpeg", created.ContentType)
	assert.True(t, strings.HasSuffix(created.Filename, "grumpy-cat.jpg"))
	require.NotNil(t, created.Description)
	assert.Equal(t, desc, *created.Description)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Filename, fetched.Filename)

	// The stored filename must resolve to the originally uploaded bytes.
	blob, err := blobs.Get(ctx, fetched.Filename)
	require.NoError(t, err)
	assert.True(t, bytes.Equal([]byte(content), blob))
}

func TestUploadUnsupportedFormatTouchesNoStorage(t *testing.T) {
	svc, store, blobs := newTestService()

	_, err := svc.Upload(context.Background(), "virus.exe", nil, &FileUpload{
		Filename: "virus.exe",
		Reader:   strings.NewReader("nope"),
		Size:     4,
	})

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 0, blobs.Len())
	assert.Empty(t, store.rows)
}

func TestUpdateDescriptionOnly(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()

	created := upload(t, svc, "cat.png", "png bytes")
	before, err := blobs.Get(ctx, created.Filename)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	desc := "new description"
	updated, err := svc.Update(ctx, created.ID, nil, &desc)
	require.NoError(t, err)

	assert.Equal(t, created.Filename, updated.Filename, "filename must not change")
	assert.Equal(t, created.ContentType, updated.ContentType)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at must be strictly later")
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	after, err := blobs.Get(ctx, created.Filename)
	require.NoError(t, err)
	assert.Equal(t, before, after, "blob must be untouched")
}

func TestUpdateReplacesBlob(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()

	created := upload(t, svc, "old.gif", "old bytes")

	newContent := "new bytes"
	updated, err := svc.Update(ctx, created.ID, &FileUpload{
		Filename: "new.webm",
		Reader:   strings.NewReader(newContent),
		Size:     int64(len(newContent)),
	}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, created.Filename, updated.Filename)
	assert.True(t, strings.HasSuffix(updated.Filename, "new.webm"))
	assert.Equal(t, "video/webm", updated.ContentType, "content type follows the new filename")

	blob, err := blobs.Get(ctx, updated.Filename)
	require.NoError(t, err)
	assert.Equal(t, []byte(newContent), blob)

	// Old blob is gone once the metadata commit succeeded.
	_, err = blobs.Get(ctx, created.Filename)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	assert.Equal(t, 1, blobs.Len())
}

func TestUpdateRequiresSomething(t *testing.T) {
	svc, _, _ := newTestService()

	created := upload(t, svc, "cat.webp", "webp")

	_, err := svc.Update(context.Background(), created.ID, nil, nil)
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestUpdateUnknownID(t *testing.T) {
	svc, _, blobs := newTestService()

	desc := "whatever"
	_, err := svc.Update(context.Background(), 404, nil, &desc)
	assert.ErrorIs(t, err, ErrNotFound)

	// A file replace for an unknown id must not upload anything.
	_, err = svc.Update(context.Background(), 404, &FileUpload{
		Filename: "cat.jpg",
		Reader:   strings.NewReader("x"),
		Size:     1,
	}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, blobs.Len())
}

func TestDeleteThenGet(t *testing.T) {
	svc, _, blobs := newTestService()
	ctx := context.Background()

	created := upload(t, svc, "cat.bmp", "bmp bytes")

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err := svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = blobs.Get(ctx, created.Filename)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdering(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first := upload(t, svc, "a.jpg", "a")
	second := upload(t, svc, "b.jpg", "b")
	third := upload(t, svc, "c.jpg", "c")

	// Touch the first one so updated_at ordering diverges from id ordering.
	time.Sleep(5 * time.Millisecond)
	desc := "touched"
	_, err := svc.Update(ctx, first.ID, nil, &desc)
	require.NoError(t, err)

	t.Run("default ascending by id", func(t *testing.T) {
		memes, total, err := svc.List(ctx, ListParams{})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, memes, 3)
		assert.Equal(t, []int64{first.ID, second.ID, third.ID},
			[]int64{memes[0].ID, memes[1].ID, memes[2].ID})
	})

	t.Run("descending by updated_at", func(t *testing.T) {
		memes, _, err := svc.List(ctx, ListParams{OrderBy: "updated_at", Descending: true})
		require.NoError(t, err)
		require.Len(t, memes, 3)
		assert.Equal(t, first.ID, memes[0].ID, "most recently touched comes first")
		for i := 1; i < len(memes); i++ {
			assert.False(t, memes[i-1].UpdatedAt.Before(memes[i].UpdatedAt),
				"updated_at must be non-increasing")
		}
	})

	t.Run("offset and limit", func(t *testing.T) {
		memes, total, err := svc.List(ctx, ListParams{Offset: 1, Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, memes, 1)
		assert.Equal(t, second.ID, memes[0].ID)
	})
}
