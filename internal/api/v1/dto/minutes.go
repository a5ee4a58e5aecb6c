package dto

import (
	"mime/multipart"

	"minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/app/minutes"
)

// CreateMinutesRequest is the multipart form of POST /api/v1/minutes
type CreateMinutesRequest struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
	Mode string                `form:"mode" binding:"omitempty,oneof=full conversation points"`
}

// Validate applies the rules struct tags cannot express
func (r *CreateMinutesRequest) Validate() error {
	if r.File.Size == 0 {
		return errors.NewValidationError("Validation failed", map[string]string{"file": "is empty"})
	}
	if _, err := minutes.ParseMode(r.Mode); err != nil {
		return errors.NewValidationError("Validation failed", map[string]string{"mode": err.Error()})
	}
	return nil
}

// ParsedMode returns the selected mode; an empty field means full
func (r *CreateMinutesRequest) ParsedMode() minutes.Mode {
	mode, err := minutes.ParseMode(r.Mode)
	if err != nil {
		return minutes.ModeFull
	}
	return mode
}

// ModeResponse describes one output mode
type ModeResponse struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Header string `json:"header"`
}

// StatusEvent is the first SSE event of a streamed job
type StatusEvent struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Mode     string `json:"mode"`
	Provider string `json:"provider"`
}

// ProgressEvent is sent after every transcribed chunk
type ProgressEvent struct {
	Text     string  `json:"text"`
	Progress float64 `json:"progress"`
	Chunk    int     `json:"chunk"`
	Chunks   int     `json:"chunks"`
}

// DoneEvent carries the rendered document
type DoneEvent struct {
	Message  string `json:"message"`
	Document string `json:"document"`
	Filename string `json:"filename"`
	Mode     string `json:"mode"`
}

// ErrorEvent ends a streamed job that failed
type ErrorEvent struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Chunk   string `json:"chunk,omitempty"`
}
