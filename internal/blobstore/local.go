package blobstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// Local stores audio blobs on the local filesystem under a single
// upload directory. Saved files get uuid-based names; the returned path
// is the opaque key callers hand back to Load and Delete.
type Local struct {
	dir    string
	logger *slog.Logger
}

// NewLocal creates the upload directory if needed and returns a store.
func NewLocal(dir string, logger *slog.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Local{dir: dir, logger: logger}, nil
}

func (l *Local) Save(_ context.Context, content []byte, originalFilename string) (string, error) {
	ext := filepath.Ext(originalFilename)
	path := filepath.Join(l.dir, uuid.New().String()+ext)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	l.logger.Info("File saved",
		slog.String("original_filename", originalFilename),
		slog.String("saved_path", path),
		slog.Int("file_size", len(content)),
	)
	return path, nil
}

// Load reads a stored blob back. Any read failure surfaces as
// ErrBlobUnavailable so callers can classify the outcome.
func (l *Local) Load(_ context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBlobUnavailable, path, err)
	}

	l.logger.Debug("File loaded",
		slog.String("file_path", path),
		slog.Int("file_size", len(content)),
	)
	return content, nil
}

// Delete removes a stored blob. Best-effort: a missing target is not an
// error.
func (l *Local) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("File not found for deletion",
				slog.String("file_path", path),
			)
			return nil
		}
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}

	l.logger.Info("File deleted",
		slog.String("file_path", path),
	)
	return nil
}
