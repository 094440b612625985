package blobstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sautihq/sauti-notes/internal/transcription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Local {
	t.Helper()
	store, err := NewLocal(filepath.Join(t.TempDir(), "uploads"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return store
}

func TestLocalSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	content := []byte("fake audio bytes")

	path, err := store.Save(ctx, content, "meeting.mp3")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".mp3"), "saved path keeps the extension: %s", path)
	assert.NotContains(t, filepath.Base(path), "meeting", "saved name is opaque")

	loaded, err := store.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, content, loaded)
}

func TestLocalSaveUniqueNames(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.Save(ctx, []byte("a"), "same.wav")
	require.NoError(t, err)
	second, err := store.Save(ctx, []byte("b"), "same.wav")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBlobUnavailable)
}

func TestLocalDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	path, err := store.Save(ctx, []byte("bytes"), "x.ogg")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Load(ctx, path)
	require.Error(t, err)

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(ctx, path))
}
