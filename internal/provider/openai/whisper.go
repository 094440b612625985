package openai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
)

// Transcriber calls the Whisper audio transcription endpoint.
type Transcriber struct {
	client *Client
	logger *slog.Logger
}

// NewTranscriber creates a Transcriber on top of the shared client.
func NewTranscriber(client *Client, logger *slog.Logger) *Transcriber {
	return &Transcriber{client: client, logger: logger}
}

// Transcribe sends the audio bytes to /audio/transcriptions and returns
// the plain-text transcript. filenameHint names the multipart part; the
// API uses it to sniff the container format.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, languageHint, filenameHint string) (string, error) {
	if filenameHint == "" {
		filenameHint = "audio.mp3"
	}

	t.logger.Info("Starting transcription",
		slog.String("language", languageHint),
		slog.Int("file_size", len(audio)),
		slog.String("model", t.client.cfg.WhisperModel),
	)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filenameHint)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio part: %w", err)
	}
	if err := writer.WriteField("model", t.client.cfg.WhisperModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField("language", languageHint); err != nil {
		return "", fmt.Errorf("failed to write language field: %w", err)
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("failed to write response_format field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart request: %w", err)
	}

	raw, err := t.client.do(ctx, http.MethodPost, t.client.endpoint("/audio/transcriptions"), writer.FormDataContentType(), body)
	if err != nil {
		return "", err
	}

	transcript := strings.TrimRight(string(raw), "\n")

	t.logger.Info("Transcription completed",
		slog.String("language", languageHint),
		slog.Int("transcript_length", len(transcript)),
	)
	return transcript, nil
}
