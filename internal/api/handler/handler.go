package handler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/config"
	"github.com/sautihq/sauti-notes/internal/transcription"
)

// JobProcessor runs the transcribe-then-summarize workflow for one job.
// In sync mode this is the orchestrator itself.
type JobProcessor interface {
	ProcessJob(ctx context.Context, id uuid.UUID) error
}

// QueuePublisher enqueues a message for the worker service. Satisfied by
// the shared RabbitMQ client.
type QueuePublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// HealthChecker reports backing-store availability. Satisfied by the
// shared PostgreSQL client.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Store     transcription.Store
	Blobs     transcription.BlobStore
	Processor JobProcessor
	Publisher QueuePublisher
	DBHealth  HealthChecker
	Storage   config.StorageConfig
	Mode      string
}

// TranscriptionHandler handles transcription-related HTTP requests
type TranscriptionHandler struct {
	logger    *slog.Logger
	store     transcription.Store
	blobs     transcription.BlobStore
	processor JobProcessor
	publisher QueuePublisher
	storage   config.StorageConfig
	mode      string
}

// NewTranscriptionHandler creates a new TranscriptionHandler instance
func NewTranscriptionHandler(deps *Dependencies) *TranscriptionHandler {
	return &TranscriptionHandler{
		logger:    deps.Logger,
		store:     deps.Store,
		blobs:     deps.Blobs,
		processor: deps.Processor,
		publisher: deps.Publisher,
		storage:   deps.Storage,
		mode:      deps.Mode,
	}
}
