package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"minutes-whisper/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateForm binds a multipart form, then checks struct tags and domain rules
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindWith(req, binding.FormMultipart); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.NewPayloadTooLargeError(tooLarge.Limit)
		}

		var validationErrs validator.ValidationErrors
		if stderrors.As(err, &validationErrs) {
			return errors.NewValidationError("Validation failed", fieldErrors(validationErrs))
		}

		return errors.NewBadRequestError("invalid multipart form")
	}

	if v, ok := req.(Validator); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func fieldErrors(validationErrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(validationErrs))
	for _, fieldError := range validationErrs {
		field := strings.ToLower(fieldError.Field())

		switch fieldError.Tag() {
		case "required":
			out[field] = "is required"
		case "oneof":
			out[field] = "must be one of: " + fieldError.Param()
		case "max":
			out[field] = "is too long"
		default:
			out[field] = "is invalid"
		}
	}
	return out
}
