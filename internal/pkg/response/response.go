// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	"mealkit-service/internal/domain/subscription"
	xerrors "mealkit-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response. The request is aborted before
// the body is written so later handlers do not run.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	if len(data) > 0 {
		resp.Data = data[0]
	}

	c.JSON(code, resp)
}

// FromError picks the status code for a service error and writes it.
func FromError(c *gin.Context, message string, err error, data ...interface{}) {
	Error(c, StatusFor(err), message, err, data...)
}

// StatusFor maps domain and sentinel errors to HTTP status codes.
func StatusFor(err error) int {
	var domainErr *subscription.Error
	switch {
	case errors.As(err, &domainErr):
		return http.StatusBadRequest
	case errors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, xerrors.ErrUnauthorized),
		errors.Is(err, xerrors.ErrInvalidCredentials),
		errors.Is(err, xerrors.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, xerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}
