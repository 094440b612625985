package domain

// ProcessingStatus is the lifecycle state of a transcription job.
// Persisted as its string token, never as an ordinal.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "PENDING"
	StatusProcessing ProcessingStatus = "PROCESSING"
	StatusCompleted  ProcessingStatus = "COMPLETED"
	StatusFailed     ProcessingStatus = "FAILED"
)

// Valid reports whether s is one of the known status tokens.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}
