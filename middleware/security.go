package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxRequestBody caps incoming request bodies at 1 MiB. A note body tops
// out at 10,000 characters, so anything near this limit is not a note.
const MaxRequestBody int64 = 1 << 20

// RequestSizeLimiter rejects requests whose body exceeds maxSize bytes.
// Oversized declared lengths are rejected up front with 413; chunked
// bodies are capped by MaxBytesReader as they are read.
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.AbortWithStatus(http.StatusRequestEntityTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
