// Package httperr turns infrastructure failures into opaque JSON responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"referearn_backend/internal/platform/db"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Infra logs err under op and aborts with a generic status and message.
// Driver text stays in the log.
func Infra(c *gin.Context, op string, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, db.ErrConnection):
		status, msg = http.StatusServiceUnavailable, "service unavailable"
	case errors.Is(err, db.ErrTimeout):
		status, msg = http.StatusGatewayTimeout, "request timed out"
	}
	zap.L().Error("request failed",
		zap.String("op", op),
		zap.Error(err),
		zap.String("request_id", c.GetString("requestID")))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// JSON aborts with status and a client-safe message.
func JSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
