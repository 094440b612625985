package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/internal/api/dto"
	"github.com/sautihq/sauti-notes/internal/config"
	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// jobMessage is the payload published for the worker service.
type jobMessage struct {
	TranscriptionID string `json:"transcription_id"`
}

// Upload handles POST /api/v1/upload
// Accepts a multipart audio file and creates a transcription job. In
// sync mode the job is processed before responding; in queue mode it is
// published to RabbitMQ and returned as PENDING.
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	h.logger.Info("Upload called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.logger.Error("Missing file in upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "file is required",
		})
		return
	}
	defer file.Close()

	// Validation failures reject the request before a job exists.
	ext := filepath.Ext(header.Filename)
	if !h.storage.ExtensionAllowed(ext) {
		h.logger.Warn("Rejected upload with unsupported file type",
			slog.String("filename", header.Filename),
			slog.String("extension", ext),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":              domain.ErrInvalidFileType.Error(),
			"allowed_extensions": h.storage.AllowedExtensions,
		})
		return
	}

	if header.Size > h.storage.MaxFileSizeBytes() {
		h.logger.Warn("Rejected oversized upload",
			slog.String("filename", header.Filename),
			slog.Int64("size", header.Size),
			slog.Int64("max_size", h.storage.MaxFileSizeBytes()),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            domain.ErrFileTooLarge.Error(),
			"max_file_size_mb": h.storage.MaxFileSizeMB,
		})
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.storage.MaxFileSizeBytes()+1))
	if err != nil {
		h.logger.Error("Failed to read upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to read uploaded file",
		})
		return
	}
	if int64(len(content)) > h.storage.MaxFileSizeBytes() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            domain.ErrFileTooLarge.Error(),
			"max_file_size_mb": h.storage.MaxFileSizeMB,
		})
		return
	}

	ctx := c.Request.Context()

	path, err := h.blobs.Save(ctx, content, header.Filename)
	if err != nil {
		h.logger.Error("Failed to store audio", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to store uploaded file",
		})
		return
	}

	tr := domain.NewTranscription(header.Filename, path)
	if err := h.store.Create(ctx, tr); err != nil {
		h.logger.Error("Failed to create transcription", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create transcription",
		})
		return
	}

	// origin is optional client metadata (e.g. "mobile", "web"); it is
	// logged for traceability but not persisted.
	h.logger.Info("Transcription created",
		slog.String("transcription_id", tr.ID.String()),
		slog.String("filename", tr.Filename),
		slog.Int("size", len(content)),
		slog.String("origin", c.PostForm("origin")),
		slog.String("mode", h.mode),
	)

	if h.mode == config.ProcessingModeQueue {
		h.enqueue(c, tr)
		return
	}

	// Sync mode: the workflow runs inline and every outcome is already
	// persisted, so the response carries the terminal state.
	if err := h.processor.ProcessJob(ctx, tr.ID); err != nil {
		h.logger.Error("Processing finished with failure",
			slog.String("transcription_id", tr.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	processed, err := h.store.GetByID(ctx, tr.ID)
	if err != nil {
		h.logger.Error("Failed to reload transcription", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load transcription",
		})
		return
	}

	c.JSON(http.StatusCreated, dto.NewTranscriptionDetailDTO(processed))
}

func (h *TranscriptionHandler) enqueue(c *gin.Context, tr *domain.Transcription) {
	ctx := c.Request.Context()

	body, err := json.Marshal(jobMessage{TranscriptionID: tr.ID.String()})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to enqueue transcription",
		})
		return
	}

	if err := h.publisher.PublishWithRetry(ctx, body, "application/json"); err != nil {
		h.logger.Error("Failed to publish transcription job",
			slog.String("transcription_id", tr.ID.String()),
			slog.String("error", err.Error()),
		)

		// The job cannot reach a worker, so it is marked FAILED rather
		// than left PENDING forever.
		tr.MarkFailed("failed to enqueue for processing: " + err.Error())
		if updErr := h.store.Update(ctx, tr); updErr != nil {
			h.logger.Error("Failed to persist FAILED status",
				slog.String("transcription_id", tr.ID.String()),
				slog.String("error", updErr.Error()),
			)
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to enqueue transcription",
		})
		return
	}

	h.logger.Info("Transcription job published",
		slog.String("transcription_id", tr.ID.String()),
	)

	c.JSON(http.StatusCreated, dto.NewTranscriptionDetailDTO(tr))
}

// ListTranscriptions handles GET /api/v1/transcriptions
// Lists transcriptions newest first with offset/limit pagination
func (h *TranscriptionHandler) ListTranscriptions(c *gin.Context) {
	var req dto.ListTranscriptionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	transcriptions, err := h.store.List(c.Request.Context(), req.Offset, req.Limit)
	if err != nil {
		h.logger.Error("Failed to list transcriptions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to list transcriptions",
		})
		return
	}

	items := make([]dto.TranscriptionDTO, len(transcriptions))
	for i, tr := range transcriptions {
		items[i] = dto.NewTranscriptionDTO(tr)
	}

	c.JSON(http.StatusOK, dto.ListTranscriptionsResponse{
		Transcriptions: items,
		Offset:         req.Offset,
		Limit:          req.Limit,
	})
}

// GetTranscription handles GET /api/v1/transcriptions/:id
func (h *TranscriptionHandler) GetTranscription(c *gin.Context) {
	tr, ok := h.loadByParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.NewTranscriptionDetailDTO(tr))
}

// GetTranscript handles GET /api/v1/transcript/:id
// Returns the raw transcript text once transcription has produced it
func (h *TranscriptionHandler) GetTranscript(c *gin.Context) {
	tr, ok := h.loadByParam(c)
	if !ok {
		return
	}

	if tr.TranscriptText == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "transcript not available",
			"status": string(tr.Status),
		})
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptDTO{
		ID:             tr.ID.String(),
		TranscriptText: tr.TranscriptText,
	})
}

// GetSummary handles GET /api/v1/summary/:id
// Returns the structured summary once summarization has produced it
func (h *TranscriptionHandler) GetSummary(c *gin.Context) {
	tr, ok := h.loadByParam(c)
	if !ok {
		return
	}

	if tr.Summary == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "summary not available",
			"status": string(tr.Status),
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewSummaryDTO(tr.Summary))
}

// audioContentTypes maps upload extensions to the content type served
// back. Unknown extensions fall through to application/octet-stream.
var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// GetAudio handles GET /api/v1/audio/:id
// Streams the originally uploaded audio bytes back to the caller
func (h *TranscriptionHandler) GetAudio(c *gin.Context) {
	tr, ok := h.loadByParam(c)
	if !ok {
		return
	}

	content, err := h.blobs.Load(c.Request.Context(), tr.FilePath)
	if err != nil {
		h.logger.Error("Failed to load audio blob",
			slog.String("transcription_id", tr.ID.String()),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusNotFound, gin.H{
			"error": "audio not available",
		})
		return
	}

	contentType, ok := audioContentTypes[strings.ToLower(filepath.Ext(tr.Filename))]
	if !ok {
		contentType = "application/octet-stream"
	}

	c.Data(http.StatusOK, contentType, content)
}

// loadByParam parses the :id param and loads the transcription, writing
// the error response itself when either step fails.
func (h *TranscriptionHandler) loadByParam(c *gin.Context) (*domain.Transcription, bool) {
	raw := c.Param("id")

	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Error("Invalid transcription id", slog.String("id", raw), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id must be a valid UUID",
		})
		return nil, false
	}

	tr, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "transcription not found",
			})
			return nil, false
		}
		h.logger.Error("Failed to get transcription", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to get transcription",
		})
		return nil, false
	}

	return tr, true
}
