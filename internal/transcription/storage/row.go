package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// transcriptionRow is the persisted shape of a transcription. The summary
// is denormalized into a JSON text column, reflecting its 1:0..1
// value-object relationship with the owning row.
type transcriptionRow struct {
	ID             string         `db:"id"`
	Filename       string         `db:"filename"`
	FilePath       string         `db:"file_path"`
	Status         string         `db:"status"`
	TranscriptText sql.NullString `db:"transcript_text"`
	SummaryJSON    sql.NullString `db:"summary_json"`
	ErrorMessage   sql.NullString `db:"error_message"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func rowFromEntity(tr *domain.Transcription) (*transcriptionRow, error) {
	row := &transcriptionRow{
		ID:        tr.ID.String(),
		Filename:  tr.Filename,
		FilePath:  tr.FilePath,
		Status:    string(tr.Status),
		CreatedAt: tr.CreatedAt,
		UpdatedAt: tr.UpdatedAt,
	}

	if tr.TranscriptText != "" {
		row.TranscriptText = sql.NullString{String: tr.TranscriptText, Valid: true}
	}
	if tr.ErrorMessage != "" {
		row.ErrorMessage = sql.NullString{String: tr.ErrorMessage, Valid: true}
	}
	if tr.Summary != nil {
		data, err := json.Marshal(tr.Summary)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal summary: %w", err)
		}
		row.SummaryJSON = sql.NullString{String: string(data), Valid: true}
	}

	return row, nil
}

func (r *transcriptionRow) toEntity() (*domain.Transcription, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid transcription id %q: %w", r.ID, err)
	}

	tr := &domain.Transcription{
		ID:        id,
		Filename:  r.Filename,
		FilePath:  r.FilePath,
		Status:    domain.ProcessingStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if r.TranscriptText.Valid {
		tr.TranscriptText = r.TranscriptText.String
	}
	if r.ErrorMessage.Valid {
		tr.ErrorMessage = r.ErrorMessage.String
	}
	if r.SummaryJSON.Valid {
		var summary domain.Summary
		if err := json.Unmarshal([]byte(r.SummaryJSON.String), &summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
		tr.Summary = &summary
	}

	return tr, nil
}
