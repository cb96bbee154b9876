package httpapi

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/bnema/wayfinder/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// requestID tags every request with a ULID, reusing a client-supplied one.
func requestID() gin.HandlerFunc {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)

	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			mu.Lock()
			id = ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
			mu.Unlock()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger puts a request-scoped logger in the request context and
// logs each completed request.
func requestLogger(base context.Context) gin.HandlerFunc {
	baseLogger := logging.FromContext(base)

	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetString(requestIDHeader)

		ctx := logging.WithContext(c.Request.Context(), *baseLogger)
		ctx = logging.WithRequestID(logging.WithComponent(ctx, "httpapi"), id)
		c.Request = c.Request.WithContext(ctx)
		logger := logging.FromContext(ctx)

		c.Next()

		ev := logger.Debug()
		if c.Writer.Status() >= 500 {
			ev = logger.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
