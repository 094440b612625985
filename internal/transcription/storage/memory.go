package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// MemoryStore is a mutex-guarded in-memory implementation of the store
// contract. It serializes entities through the same row codec as the
// Postgres store so callers get copies, never shared pointers.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*transcriptionRow
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[uuid.UUID]*transcriptionRow),
	}
}

func (s *MemoryStore) Create(_ context.Context, tr *domain.Transcription) error {
	row, err := rowFromEntity(tr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rows[tr.ID]; exists {
		return domain.ErrDuplicateID
	}
	s.rows[tr.ID] = row
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Transcription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return row.toEntity()
}

func (s *MemoryStore) Update(_ context.Context, tr *domain.Transcription) error {
	row, err := rowFromEntity(tr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[tr.ID]; !ok {
		return domain.ErrNotFound
	}
	s.rows[tr.ID] = row
	return nil
}

func (s *MemoryStore) List(_ context.Context, offset, limit int) ([]*domain.Transcription, error) {
	s.mu.RLock()
	rows := make([]*transcriptionRow, 0, len(s.rows))
	for _, row := range s.rows {
		rows = append(rows, row)
	}
	s.mu.RUnlock()

	// created_at DESC with id DESC as tiebreaker, matching the SQL store.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})

	if offset >= len(rows) {
		return []*domain.Transcription{}, nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}

	result := make([]*domain.Transcription, 0, end-offset)
	for _, row := range rows[offset:end] {
		tr, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		result = append(result, tr)
	}
	return result, nil
}
