package transcription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
	"github.com/sautihq/sauti-notes/internal/transcription/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobStore struct {
	blobs   map[string][]byte
	loadErr error
}

func (f *fakeBlobStore) Save(_ context.Context, content []byte, filename string) (string, error) {
	path := "/blobs/" + filename
	f.blobs[path] = content
	return path, nil
}

func (f *fakeBlobStore) Load(_ context.Context, path string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	content, ok := f.blobs[path]
	if !ok {
		return nil, errors.New("no such blob")
	}
	return content, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, path string) error {
	delete(f.blobs, path)
	return nil
}

type fakeTranscriber struct {
	text   string
	err    error
	calls  int
	gotLan string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, languageHint, _ string) (string, error) {
	f.calls++
	f.gotLan = languageHint
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeSummarizer struct {
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ string, transcriptionID uuid.UUID, _ string) (*domain.Summary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	due := "2026-09-15"
	return domain.NewSummary(
		transcriptionID,
		"Kikao kilijadili bajeti.",
		[]string{"Bajeti imepitishwa"},
		[]domain.ActionItem{{Person: "Asha", Task: "Andaa ripoti", DueDate: &due}},
		[]string{"Ununuzi wa vifaa"},
	), nil
}

type orchestratorFixture struct {
	store       *storage.MemoryStore
	blobs       *fakeBlobStore
	transcriber *fakeTranscriber
	summarizer  *fakeSummarizer
	orch        *Orchestrator
}

func newFixture(t *testing.T) *orchestratorFixture {
	t.Helper()
	f := &orchestratorFixture{
		store:       storage.NewMemoryStore(),
		blobs:       &fakeBlobStore{blobs: make(map[string][]byte)},
		transcriber: &fakeTranscriber{text: "tulijadili bajeti ya mwaka ujao"},
		summarizer:  &fakeSummarizer{},
	}
	f.orch = NewOrchestrator(f.store, f.transcriber, f.summarizer, f.blobs, "sw", slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func (f *orchestratorFixture) seedJob(t *testing.T) *domain.Transcription {
	t.Helper()
	ctx := context.Background()
	path, err := f.blobs.Save(ctx, []byte("ten seconds of audio"), "kikao.mp3")
	require.NoError(t, err)
	tr := domain.NewTranscription("kikao.mp3", path)
	require.NoError(t, f.store.Create(ctx, tr))
	return tr
}

func TestProcessJobSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.seedJob(t)

	require.NoError(t, f.orch.ProcessJob(ctx, tr.ID))

	got, err := f.store.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, "tulijadili bajeti ya mwaka ujao", got.TranscriptText)
	require.NotNil(t, got.Summary)
	assert.Equal(t, tr.ID, got.Summary.TranscriptionID)
	assert.Empty(t, got.ErrorMessage)
	assert.Equal(t, "sw", f.transcriber.gotLan)
}

func TestProcessJobNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.orch.ProcessJob(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.transcriber.calls)
}

func TestProcessJobBlobUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.seedJob(t)
	f.blobs.loadErr = errors.New("disk detached")

	err := f.orch.ProcessJob(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrBlobUnavailable)

	got, getErr := f.store.GetByID(ctx, tr.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "audio blob unavailable")
	assert.Zero(t, f.transcriber.calls)
}

func TestProcessJobTranscriptionFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.seedJob(t)
	f.transcriber.err = errors.New("whisper timed out")

	err := f.orch.ProcessJob(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrTranscriptionFailed)

	got, getErr := f.store.GetByID(ctx, tr.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Empty(t, got.TranscriptText, "transcript stays unset on failure")
	assert.Contains(t, got.ErrorMessage, "whisper timed out")
	assert.Zero(t, f.summarizer.calls)
}

func TestProcessJobEmptyTranscript(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			tr := f.seedJob(t)
			f.transcriber.text = tt.text

			err := f.orch.ProcessJob(ctx, tr.ID)
			require.ErrorIs(t, err, domain.ErrEmptyTranscript)

			got, getErr := f.store.GetByID(ctx, tr.ID)
			require.NoError(t, getErr)
			assert.Equal(t, domain.StatusFailed, got.Status)
			assert.Contains(t, got.ErrorMessage, "transcript is empty")
			assert.Zero(t, f.summarizer.calls, "summarization must not run on empty input")
		})
	}
}

func TestProcessJobSummarizationFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.seedJob(t)
	f.summarizer.err = errors.New("model unavailable")

	err := f.orch.ProcessJob(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrSummarizationFailed)

	got, getErr := f.store.GetByID(ctx, tr.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusFailed, got.Status)
	// The transcript persisted before summarization survives the failure.
	assert.Equal(t, "tulijadili bajeti ya mwaka ujao", got.TranscriptText)
	assert.Nil(t, got.Summary)
	assert.Contains(t, got.ErrorMessage, "model unavailable")
}

// ctxBoundStore refuses work once the given context is done, the way a
// real database driver does.
type ctxBoundStore struct {
	inner Store
}

func (s *ctxBoundStore) Create(ctx context.Context, tr *domain.Transcription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.inner.Create(ctx, tr)
}

func (s *ctxBoundStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.GetByID(ctx, id)
}

func (s *ctxBoundStore) Update(ctx context.Context, tr *domain.Transcription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.inner.Update(ctx, tr)
}

func (s *ctxBoundStore) List(ctx context.Context, offset, limit int) ([]*domain.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.inner.List(ctx, offset, limit)
}

type transcribeFunc func(ctx context.Context, audio []byte, languageHint, filenameHint string) (string, error)

func (f transcribeFunc) Transcribe(ctx context.Context, audio []byte, languageHint, filenameHint string) (string, error) {
	return f(ctx, audio, languageHint, filenameHint)
}

func TestProcessJobFailurePersistsAfterContextExpiry(t *testing.T) {
	mem := storage.NewMemoryStore()
	blobs := &fakeBlobStore{blobs: make(map[string][]byte)}
	path, err := blobs.Save(context.Background(), []byte("ten seconds of audio"), "kikao.mp3")
	require.NoError(t, err)
	tr := domain.NewTranscription("kikao.mp3", path)
	require.NoError(t, mem.Create(context.Background(), tr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The transcriber overruns its deadline: the job context dies while
	// the call is in flight.
	slow := transcribeFunc(func(ctx context.Context, _ []byte, _, _ string) (string, error) {
		cancel()
		return "", ctx.Err()
	})

	orch := NewOrchestrator(&ctxBoundStore{inner: mem}, slow, &fakeSummarizer{}, blobs, "sw", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err = orch.ProcessJob(ctx, tr.ID)
	require.ErrorIs(t, err, domain.ErrTranscriptionFailed)

	got, getErr := mem.GetByID(context.Background(), tr.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusFailed, got.Status, "FAILED must persist even though the job context expired")
	assert.Contains(t, got.ErrorMessage, "context canceled")
}

func TestProcessJobAlreadyProcessed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tr := f.seedJob(t)

	require.NoError(t, f.orch.ProcessJob(ctx, tr.ID))

	// A second run hits the PENDING guard and ends the job FAILED.
	err := f.orch.ProcessJob(ctx, tr.ID)
	require.Error(t, err)
	assert.True(t, domain.IsInvalidTransition(err))

	got, getErr := f.store.GetByID(ctx, tr.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusFailed, got.Status)
}
