package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/defilend/ledgerd/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request and records request metrics.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		status := c.Writer.Status()
		latency := time.Since(start)

		metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status))
		metrics.RecordHTTPRequestDuration(route, latency.Seconds())

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Msg("Request handled")
	}
}

// Recovery converts handler panics into the generic 500 payload instead of
// tearing down the connection.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Msg("Handler panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Something broke!",
					"message":   fmt.Sprint(r),
					"timestamp": timestamp(),
				})
			}
		}()
		c.Next()
	}
}
