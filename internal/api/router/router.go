package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sautihq/sauti-notes/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "healthy",
			"service": "sauti-api-service",
		}
		code := http.StatusOK

		if deps.DBHealth != nil {
			if err := deps.DBHealth.HealthCheck(c.Request.Context()); err != nil {
				body["status"] = "degraded"
				body["database"] = "unavailable"
				code = http.StatusServiceUnavailable
			} else {
				body["database"] = "ok"
			}
		}

		c.JSON(code, body)
	})

	transcriptionHandler := handler.NewTranscriptionHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// POST /api/v1/upload - Upload audio and create a transcription job
		v1.POST("/upload", transcriptionHandler.Upload)

		// GET /api/v1/transcriptions - List transcriptions newest first
		v1.GET("/transcriptions", transcriptionHandler.ListTranscriptions)

		// GET /api/v1/transcriptions/:id - Get transcription details
		v1.GET("/transcriptions/:id", transcriptionHandler.GetTranscription)

		// GET /api/v1/transcript/:id - Get raw transcript text
		v1.GET("/transcript/:id", transcriptionHandler.GetTranscript)

		// GET /api/v1/summary/:id - Get structured summary
		v1.GET("/summary/:id", transcriptionHandler.GetSummary)

		// GET /api/v1/audio/:id - Download the original audio
		v1.GET("/audio/:id", transcriptionHandler.GetAudio)
	}

	return r
}
