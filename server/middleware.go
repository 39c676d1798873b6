package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"howmuch-apple/utils"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID tags every request with an id, reusing the caller's when given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one line per request through the application logger.
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		format := "[http] %s %s → %d (%v) id=%s"
		args := []any{c.Request.Method, c.Request.URL.Path, status,
			time.Since(start).Round(time.Millisecond), c.GetString(requestIDKey)}
		switch {
		case status >= 500:
			logger.Error(format, args...)
		case status >= 400:
			logger.Warn(format, args...)
		default:
			logger.Info(format, args...)
		}
	}
}
