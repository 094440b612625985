package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a transcription cannot be found in the store
	ErrNotFound = errors.New("transcription not found")

	// ErrDuplicateID is returned when creating a transcription whose id already exists
	ErrDuplicateID = errors.New("transcription id already exists")

	// ErrSummaryOwnerMismatch is returned when a summary's transcription_id
	// does not match the transcription it is being attached to
	ErrSummaryOwnerMismatch = errors.New("summary transcription_id must match transcription id")

	// ErrInvalidFileType is returned when an uploaded file's extension is not allowlisted
	ErrInvalidFileType = errors.New("file type not allowed")

	// ErrFileTooLarge is returned when an uploaded file exceeds the configured maximum size
	ErrFileTooLarge = errors.New("file size exceeds maximum allowed")

	// ErrEmptyTranscript is returned when summarization is requested for an
	// empty or whitespace-only transcript
	ErrEmptyTranscript = errors.New("transcript is empty")

	// ErrBlobUnavailable is returned when stored audio bytes cannot be retrieved
	ErrBlobUnavailable = errors.New("audio blob unavailable")

	// ErrTranscriptionFailed wraps any transcription capability failure
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrSummarizationFailed wraps any summarization capability failure
	ErrSummarizationFailed = errors.New("summarization failed")
)

// InvalidTransitionError reports a status transition that the lifecycle
// does not allow. It indicates a state-ordering bug in the caller.
type InvalidTransitionError struct {
	Current   ProcessingStatus
	Attempted ProcessingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.Current, e.Attempted)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
