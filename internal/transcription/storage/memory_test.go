package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr := domain.NewTranscription("a.mp3", "/uploads/a.mp3")

	require.NoError(t, store.Create(ctx, tr))

	got, err := store.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)

	// Duplicate identity is rejected.
	err = store.Create(ctx, tr)
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	tr := domain.NewTranscription("a.mp3", "/uploads/a.mp3")

	_, err := store.GetByID(context.Background(), tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr := domain.NewTranscription("a.mp3", "/uploads/a.mp3")
	require.NoError(t, store.Create(ctx, tr))

	require.NoError(t, tr.MarkProcessing())
	require.NoError(t, store.Update(ctx, tr))

	got, err := store.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)

	// Updating a missing row fails with NotFound.
	missing := domain.NewTranscription("b.mp3", "/uploads/b.mp3")
	assert.ErrorIs(t, store.Update(ctx, missing), domain.ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tr := domain.NewTranscription("a.mp3", "/uploads/a.mp3")
	require.NoError(t, store.Create(ctx, tr))

	got, err := store.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	got.MarkFailed("mutated copy")

	again, err := store.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestMemoryStoreListPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const total = 7
	base := time.Now().UTC()
	for i := 0; i < total; i++ {
		tr := domain.NewTranscription(fmt.Sprintf("file-%d.mp3", i), fmt.Sprintf("/uploads/%d.mp3", i))
		tr.CreatedAt = base.Add(time.Duration(i) * time.Second)
		tr.UpdatedAt = tr.CreatedAt
		require.NoError(t, store.Create(ctx, tr))
	}

	first, err := store.List(ctx, 0, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)

	second, err := store.List(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, second, 3)

	third, err := store.List(ctx, 6, 3)
	require.NoError(t, err)
	require.Len(t, third, 1)

	// Newest first across all pages, no overlap and no gaps.
	all := append(append(first, second...), third...)
	seen := make(map[string]bool, total)
	for i := 0; i < len(all)-1; i++ {
		assert.False(t, all[i].CreatedAt.Before(all[i+1].CreatedAt))
	}
	for _, tr := range all {
		assert.False(t, seen[tr.ID.String()], "duplicate across pages: %s", tr.ID)
		seen[tr.ID.String()] = true
	}
	assert.Len(t, seen, total)

	// Offset past the end is an empty page, not an error.
	empty, err := store.List(ctx, 100, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
