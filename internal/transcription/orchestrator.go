package transcription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// Store persists transcriptions and their attached summaries.
type Store interface {
	Create(ctx context.Context, tr *domain.Transcription) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transcription, error)
	Update(ctx context.Context, tr *domain.Transcription) error
	List(ctx context.Context, offset, limit int) ([]*domain.Transcription, error)
}

// Transcriber turns raw audio bytes into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageHint, filenameHint string) (string, error)
}

// Summarizer turns transcript text into a structured summary owned by
// the given transcription.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, transcriptionID uuid.UUID, language string) (*domain.Summary, error)
}

// BlobStore persists and retrieves raw audio bytes by opaque path.
type BlobStore interface {
	Save(ctx context.Context, content []byte, originalFilename string) (string, error)
	Load(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

// Orchestrator drives a single transcription through the
// transcribe-then-summarize workflow.
type Orchestrator struct {
	store       Store
	transcriber Transcriber
	summarizer  Summarizer
	blobs       BlobStore
	language    string
	logger      *slog.Logger
}

// NewOrchestrator wires the orchestrator with its collaborators.
// language is the deployment's language code, used both as the
// transcription hint and the summarization output language.
func NewOrchestrator(store Store, transcriber Transcriber, summarizer Summarizer, blobs BlobStore, language string, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:       store,
		transcriber: transcriber,
		summarizer:  summarizer,
		blobs:       blobs,
		language:    language,
		logger:      logger,
	}
}

// ProcessJob runs the full workflow for one transcription id. Every
// invocation ends with the job persisted as either COMPLETED with a
// summary or FAILED with an error message; the original error is
// returned to the caller either way.
func (o *Orchestrator) ProcessJob(ctx context.Context, id uuid.UUID) error {
	if err := o.run(ctx, id); err != nil {
		o.logger.Error("Transcription processing failed",
			slog.String("transcription_id", id.String()),
			slog.String("error", err.Error()),
		)

		// The failure may be the job context itself expiring, so the
		// FAILED persist runs detached from its cancellation.
		persistCtx := context.WithoutCancel(ctx)

		// Re-fetch to get a consistent base: the in-hand value may be
		// stale after the PROCESSING persist.
		tr, getErr := o.store.GetByID(persistCtx, id)
		if getErr != nil {
			o.logger.Error("Failed to load transcription for failure marking",
				slog.String("transcription_id", id.String()),
				slog.String("error", getErr.Error()),
			)
			return err
		}

		tr.MarkFailed(err.Error())
		if updErr := o.store.Update(persistCtx, tr); updErr != nil {
			o.logger.Error("Failed to persist FAILED status",
				slog.String("transcription_id", id.String()),
				slog.String("error", updErr.Error()),
			)
		}
		return err
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, id uuid.UUID) error {
	tr, err := o.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := tr.MarkProcessing(); err != nil {
		return err
	}
	if err := o.store.Update(ctx, tr); err != nil {
		return err
	}

	o.logger.Info("Transcription processing started",
		slog.String("transcription_id", id.String()),
		slog.String("filename", tr.Filename),
	)

	audio, err := o.blobs.Load(ctx, tr.FilePath)
	if err != nil {
		if errors.Is(err, domain.ErrBlobUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrBlobUnavailable, err)
	}

	transcript, err := o.transcriber.Transcribe(ctx, audio, o.language, tr.Filename)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTranscriptionFailed, err)
	}

	if err := tr.CompleteWithTranscript(transcript); err != nil {
		return err
	}
	if err := o.store.Update(ctx, tr); err != nil {
		return err
	}

	o.logger.Info("Transcription completed",
		slog.String("transcription_id", id.String()),
		slog.Int("transcript_length", len(transcript)),
	)

	if strings.TrimSpace(transcript) == "" {
		return domain.ErrEmptyTranscript
	}

	summary, err := o.summarizer.Summarize(ctx, transcript, tr.ID, o.language)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSummarizationFailed, err)
	}

	o.logger.Info("Summary generated",
		slog.String("transcription_id", id.String()),
		slog.String("summary_id", summary.ID.String()),
		slog.Int("muhtasari_length", len(summary.Muhtasari)),
		slog.Int("maamuzi_count", len(summary.Maamuzi)),
		slog.Int("kazi_count", len(summary.Kazi)),
		slog.Int("masuala_count", len(summary.MasualaYaliyoahirishwa)),
	)

	if err := tr.AddSummary(summary); err != nil {
		return err
	}
	if err := o.store.Update(ctx, tr); err != nil {
		return err
	}

	o.logger.Info("Transcription processing completed",
		slog.String("transcription_id", id.String()),
	)
	return nil
}
