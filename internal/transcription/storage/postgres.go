package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
	"github.com/sautihq/sauti-notes/shared/postgresql"
)

// PostgresStore persists transcriptions in a single transcriptions table.
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresStore creates a PostgresStore on top of the shared client.
func NewPostgresStore(pg *postgresql.Client, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     pg.GetDB(),
		logger: logger,
	}
}

func (s *PostgresStore) Create(ctx context.Context, tr *domain.Transcription) error {
	row, err := rowFromEntity(tr)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transcriptions (
			id, filename, file_path, status,
			transcript_text, summary_json, error_message,
			created_at, updated_at
		) VALUES (
			:id, :filename, :file_path, :status,
			:transcript_text, :summary_json, :error_message,
			:created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateID
		}
		return fmt.Errorf("failed to create transcription: %w", err)
	}

	s.logger.Debug("Transcription created",
		slog.String("transcription_id", row.ID),
	)
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transcription, error) {
	query := `
		SELECT
			id, filename, file_path, status,
			transcript_text, summary_json, error_message,
			created_at, updated_at
		FROM transcriptions
		WHERE id = $1
	`

	var row transcriptionRow
	if err := s.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get transcription: %w", err)
	}

	return row.toEntity()
}

// Update fully replaces the stored representation, summary included.
func (s *PostgresStore) Update(ctx context.Context, tr *domain.Transcription) error {
	row, err := rowFromEntity(tr)
	if err != nil {
		return err
	}

	query := `
		UPDATE transcriptions
		SET filename = :filename,
			file_path = :file_path,
			status = :status,
			transcript_text = :transcript_text,
			summary_json = :summary_json,
			error_message = :error_message,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := s.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to update transcription: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	s.logger.Debug("Transcription updated",
		slog.String("transcription_id", row.ID),
		slog.String("status", row.Status),
	)
	return nil
}

func (s *PostgresStore) List(ctx context.Context, offset, limit int) ([]*domain.Transcription, error) {
	query := `
		SELECT
			id, filename, file_path, status,
			transcript_text, summary_json, error_message,
			created_at, updated_at
		FROM transcriptions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	var rows []transcriptionRow
	if err := s.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list transcriptions: %w", err)
	}

	result := make([]*domain.Transcription, 0, len(rows))
	for i := range rows {
		tr, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, tr)
	}
	return result, nil
}
