package errors

import (
	"errors"
	"fmt"
)

// Kind tags which stage of a minutes job produced an error
type Kind string

const (
	KindUnknown Kind = ""
	KindDecode  Kind = "decode"
	KindModel   Kind = "model"
	KindChunk   Kind = "chunk"
)

// Common error types
var (
	ErrMissingAPIKey = New("API key is required")
	ErrMissingBinary = New("binary path is required")
	ErrUnknownMode   = New("unknown output mode")
	ErrNoProvider    = New("no transcription provider configured")
)

// Error represents a standardized error
type Error struct {
	message string
	cause   error
	kind    Kind
	chunk   int
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message, chunk: -1}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...), chunk: -1}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
		chunk:   -1,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
		chunk:   -1,
	}
}

// Decode tags err as a failure to read or decode the uploaded audio.
func Decode(err error) error {
	if err == nil {
		return nil
	}
	return &Error{message: "audio decode failed", cause: err, kind: KindDecode, chunk: -1}
}

// Model tags err as a failure to load or configure the transcription model.
func Model(err error) error {
	if err == nil {
		return nil
	}
	return &Error{message: "model unavailable", cause: err, kind: KindModel, chunk: -1}
}

// Chunk tags err as a failure while transcribing the chunk at index.
func Chunk(index int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf("chunk %d transcription failed", index),
		cause:   err,
		kind:    KindChunk,
		chunk:   index,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// Kind returns the stage tag of the error
func (e *Error) Kind() Kind {
	return e.kind
}

// ChunkIndex returns the failing chunk, or -1 when the error is not chunk-scoped
func (e *Error) ChunkIndex() int {
	return e.chunk
}

// KindOf returns the outermost stage tag found in err's chain.
func KindOf(err error) Kind {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return KindUnknown
		}
		if e.kind != KindUnknown {
			return e.kind
		}
		err = e.cause
	}
	return KindUnknown
}

// ChunkOf returns the failing chunk index recorded in err's chain, or -1.
func ChunkOf(err error) int {
	var e *Error
	for err != nil && errors.As(err, &e) {
		if e.kind == KindChunk {
			return e.chunk
		}
		err = e.cause
	}
	return -1
}

// Helper functions for common patterns

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}

// OutOfRange returns an error for values outside acceptable range
func OutOfRange(field string, min, max interface{}) error {
	return Newf("%s out of range (must be between %v and %v)", field, min, max)
}
