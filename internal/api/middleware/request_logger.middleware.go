// internal/api/middleware/request_logger.middleware.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// RequestLogger logs one line per HTTP request. 4xx responses are logged at
// warn level and 5xx at error level.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := []interface{}{
			"method", param.Method,
			"path", param.Path,
			"status", param.StatusCode,
			"latency", param.Latency,
			"client_ip", param.ClientIP,
			"user_agent", param.Request.UserAgent(),
		}
		if param.Keys != nil {
			if id, ok := param.Keys[ContextRequestID].(string); ok {
				fields = append(fields, "request_id", id)
			}
			if uid, ok := param.Keys[ContextUserID].(string); ok {
				fields = append(fields, "user_id", uid)
			}
		}
		if param.ErrorMessage != "" {
			fields = append(fields, "error", param.ErrorMessage)
		}

		switch {
		case param.StatusCode >= 500:
			log.Error("HTTP Request", fields...)
		case param.StatusCode >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}

		return ""
	})
}
