package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transcription is one audio-to-summary unit of work. It is created by
// the intake handler in PENDING and mutated exclusively by the
// orchestrator; callers persist it through the store after mutating.
type Transcription struct {
	ID             uuid.UUID
	Filename       string
	FilePath       string
	Status         ProcessingStatus
	TranscriptText string
	Summary        *Summary
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTranscription creates a pending transcription for an uploaded file.
func NewTranscription(filename, filePath string) *Transcription {
	now := time.Now().UTC()
	return &Transcription{
		ID:        uuid.New(),
		Filename:  filename,
		FilePath:  filePath,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkProcessing moves the transcription from PENDING to PROCESSING.
func (t *Transcription) MarkProcessing() error {
	if t.Status != StatusPending {
		return &InvalidTransitionError{Current: t.Status, Attempted: StatusProcessing}
	}
	t.Status = StatusProcessing
	t.touch()
	return nil
}

// CompleteWithTranscript records the transcript text and moves the
// transcription from PROCESSING to COMPLETED.
func (t *Transcription) CompleteWithTranscript(text string) error {
	if t.Status != StatusProcessing {
		return &InvalidTransitionError{Current: t.Status, Attempted: StatusCompleted}
	}
	t.TranscriptText = text
	t.Status = StatusCompleted
	t.touch()
	return nil
}

// AddSummary attaches a summary to the transcription. The summary must
// reference this transcription's id. No status precondition: attaching
// is legal in any state, and re-attaching replaces the previous summary.
func (t *Transcription) AddSummary(summary *Summary) error {
	if summary == nil || summary.TranscriptionID != t.ID {
		return ErrSummaryOwnerMismatch
	}
	t.Summary = summary
	t.touch()
	return nil
}

// MarkFailed moves the transcription to FAILED with an error message.
// Callable from any status: this is the recovery path invoked from the
// orchestrator's catch-all handler.
func (t *Transcription) MarkFailed(message string) {
	t.Status = StatusFailed
	t.ErrorMessage = message
	t.touch()
}

func (t *Transcription) touch() {
	t.UpdatedAt = time.Now().UTC()
}
