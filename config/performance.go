package config

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoicegen-backend/logger"
)

const RequestIDHeader = "X-Request-ID"

// slowRequest is the latency above which a request is logged as a warning.
const slowRequest = 200 * time.Millisecond

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLog := logger.WithRequestID(requestID)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), reqLog))

		c.Next()

		latency := time.Since(start)
		event := reqLog.Info()
		if latency > slowRequest {
			event = reqLog.Warn().Bool("slow", true)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Msg("request")
	}
}
