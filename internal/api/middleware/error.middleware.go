package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/internal/services"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// ErrorResponse is the body written for errors collected with c.Error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler turns the last error attached with c.Error into a JSON
// response, unless the handler already wrote one.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status, code := classify(err)
		logError(log, status, err, c)

		if c.Writer.Written() {
			return
		}
		c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, widgets.ErrUnknownWidget),
		errors.Is(err, widgets.ErrStructural):
		return http.StatusBadRequest, "INVALID_REQUEST"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func logError(log logger.Logger, statusCode int, err error, c *gin.Context) {
	fields := []interface{}{
		"status", statusCode,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"client_ip", c.ClientIP(),
		"error", err.Error(),
	}
	if requestID := c.GetString(ContextRequestID); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if userID := c.GetString(ContextUserID); userID != "" {
		fields = append(fields, "user_id", userID)
	}

	if statusCode >= 500 {
		log.Error("HTTP Error", fields...)
	} else {
		log.Warn("HTTP Error", fields...)
	}
}
