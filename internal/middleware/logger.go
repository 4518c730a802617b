package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/househunt/internal/logger"
)

// LoggerKey is the context key for the request-scoped logger
const LoggerKey = "logger"

// Logger creates a middleware that logs HTTP requests using structured logging.
// Each request gets a child logger tagged with its request ID, stored under
// LoggerKey for handlers and the error helpers.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestLogger := log.WithRequestID(GetRequestID(c))
		c.Set(LoggerKey, requestLogger)

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		}
		if len(c.Request.URL.RawQuery) > 0 {
			fields["query"] = c.Request.URL.RawQuery
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case statusCode >= 500:
			requestLogger.Error("Request completed with server error", nil, fields)
		case statusCode >= 400:
			requestLogger.Warn("Request completed with client error", fields)
		default:
			requestLogger.Info("Request completed", fields)
		}
	}
}

// GetLogger retrieves the logger from the Gin context.
// Returns nil if not found.
func GetLogger(c *gin.Context) *logger.Logger {
	if log, exists := c.Get(LoggerKey); exists {
		if l, ok := log.(*logger.Logger); ok {
			return l
		}
	}
	return nil
}
