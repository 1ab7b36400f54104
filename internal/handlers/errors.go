package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"hl-portal/internal/database"
	"hl-portal/internal/media"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bodyTooLargeMessage = "Request body too large"

var errBodyTooLarge = errors.New("request body too large")

// ValidationError is a client input error answered with 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// statusFor maps an error to its HTTP status and client message.
// Unknown errors get a generic message; their details are only logged.
func statusFor(err error) (int, string) {
	var ve *ValidationError
	var fe *media.FormError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, errBodyTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, bodyTooLargeMessage
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.As(err, &fe):
		return http.StatusBadRequest, fe.Error()
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, database.ErrDuplicate):
		return http.StatusConflict, "A record with the same unique value already exists"
	case errors.Is(err, database.ErrUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable, please retry"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, message := statusFor(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(requestIDKey)),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Debug("request rejected", fields...)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// multipartForm parses the upload form of c. A body cut off by BodyLimit maps to 413.
func multipartForm(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, invalid("invalid multipart form")
	}
	return form, nil
}
