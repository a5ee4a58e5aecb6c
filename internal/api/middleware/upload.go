package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadLimit caps the request body at maxBytes. Reads past the limit fail with *http.MaxBytesError.
func UploadLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
