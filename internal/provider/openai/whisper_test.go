package openai

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranscriberForTest(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		WhisperModel: "whisper-1",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewTranscriber(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTranscribe(t *testing.T) {
	transcriber := newTranscriberForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "sw", r.FormValue("language"))
		assert.Equal(t, "text", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "kikao.mp3", header.Filename)

		w.Write([]byte("habari za asubuhi\n"))
	})

	text, err := transcriber.Transcribe(context.Background(), []byte("audio-bytes"), "sw", "kikao.mp3")
	require.NoError(t, err)
	assert.Equal(t, "habari za asubuhi", text)
}

func TestTranscribeDefaultFilename(t *testing.T) {
	transcriber := newTranscriberForTest(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "audio.mp3", header.Filename)
		w.Write([]byte("text"))
	})

	_, err := transcriber.Transcribe(context.Background(), []byte("audio"), "sw", "")
	require.NoError(t, err)
}

func TestTranscribeUpstreamError(t *testing.T) {
	transcriber := newTranscriberForTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad audio", http.StatusBadRequest)
	})

	_, err := transcriber.Transcribe(context.Background(), []byte("audio"), "sw", "a.mp3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai status 400")
}
