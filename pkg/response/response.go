// Package response renders application errors as JSON for gin handlers.
package response

import (
	"errors"
	"net/http"

	"notify-backend/pkg/apperror"
	"notify-backend/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error writes {"error", "code", "details"} with the status mapped from err's kind
func Error(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	body := gin.H{
		"error": err.Error(),
		"code":  string(apperror.KindOf(err)),
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	}

	if status >= http.StatusInternalServerError {
		zlog.Error("[HTTP] Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}

// BadRequest reports a malformed request body or query
func BadRequest(c *gin.Context, err error) {
	Error(c, apperror.Validation("invalid request: %v", err))
}
