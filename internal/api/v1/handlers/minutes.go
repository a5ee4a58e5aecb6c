package handlers

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/api/middleware"
	"minutes-whisper/internal/api/v1/dto"
	"minutes-whisper/internal/api/v1/services"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/app/minutes"
)

// MinutesHandler handles minutes job endpoints
type MinutesHandler struct {
	service services.MinutesService
}

// NewMinutesHandler creates a new minutes handler
func NewMinutesHandler(service services.MinutesService) *MinutesHandler {
	return &MinutesHandler{
		service: service,
	}
}

// Modes handles GET /api/v1/modes
func (h *MinutesHandler) Modes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"modes":   h.service.Modes(),
		"default": string(minutes.ModeFull),
	})
}

// Create handles POST /api/v1/minutes
// Runs a job on the uploaded file. The document is returned as a minutes.txt attachment,
// or as server-sent events when the client asks for a stream.
func (h *MinutesHandler) Create(c *gin.Context) {
	var req dto.CreateMinutesRequest
	if err := middleware.ValidateForm(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	file, err := req.File.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	mode := req.ParsedMode()
	if wantsStream(c) {
		h.stream(c, file, req.File.Filename, mode)
		return
	}

	result, err := h.service.CreateMinutes(c.Request.Context(), file, req.File.Filename, mode, nil)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(result.Document))
}

// stream runs the job and reports it as status, progress, then done or error events.
// The response status is 200 once the first event is sent; failures arrive as an error event.
func (h *MinutesHandler) stream(c *gin.Context, upload io.Reader, filename string, mode minutes.Mode) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send(c, "status", dto.StatusEvent{
		Status:   "started",
		Message:  minutes.StartedMessage,
		Mode:     string(mode),
		Provider: h.service.ProviderName(),
	})

	result, err := h.service.CreateMinutes(c.Request.Context(), upload, filename, mode, func(p converter.Progress) {
		send(c, "progress", dto.ProgressEvent{
			Text:     p.Text,
			Progress: p.Fraction,
			Chunk:    p.Chunk,
			Chunks:   p.Chunks,
		})
	})
	if err != nil {
		_ = c.Error(err)
		send(c, "error", errorEvent(err))
		return
	}

	send(c, "done", dto.DoneEvent{
		Message:  minutes.DoneMessage,
		Document: result.Document,
		Filename: result.FileName,
		Mode:     string(result.Mode),
	})
}

func send(c *gin.Context, event string, data interface{}) {
	c.SSEvent(event, data)
	c.Writer.Flush()
}

func errorEvent(err error) dto.ErrorEvent {
	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) {
		return dto.ErrorEvent{Message: errors.TranscriptionFailedMessage}
	}
	return dto.ErrorEvent{
		Message: apiErr.Message,
		Code:    apiErr.Code,
		Chunk:   apiErr.Details["chunk"],
	}
}

func wantsStream(c *gin.Context) bool {
	if c.Query("stream") == "true" || c.Query("stream") == "1" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}
