package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/models/dto"
	"github.com/pmb/admissions/internal/pkg/apperrors"
	"github.com/pmb/admissions/internal/pkg/dberrors"
	"github.com/pmb/admissions/internal/pkg/logger"
	"github.com/rs/zerolog"
)

// GenericErrorMessage replaces 500 messages in production
const GenericErrorMessage = "Something went wrong"

// HandleAPIError attaches err to the request and stops the handler chain.
// The response itself is written by ErrorHandler.
func HandleAPIError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// StatusFor maps an error onto its HTTP status code
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(status int, err error) string {
	switch status {
	case http.StatusBadRequest:
		return "Validation failed."
	case http.StatusUnauthorized:
		return "Unauthorized."
	case http.StatusNotFound:
		return "Resource not found."
	case http.StatusConflict:
		return "Conflict."
	default:
		return err.Error()
	}
}

// ErrorHandler renders the last error attached to the request as the failure envelope.
// Store signals are translated first so unique violations become 409 and missing rows 404.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		original := c.Errors.Last().Err
		err := dberrors.Translate(original)
		status := StatusFor(err)

		message, ok := apperrors.Message(err)
		if !ok {
			message = defaultMessage(status, err)
		}
		if production && status >= http.StatusInternalServerError {
			message = GenericErrorMessage
		}

		var event *zerolog.Event
		if status >= http.StatusInternalServerError {
			event = logger.Error().Stack()
		} else {
			event = logger.Warn()
		}
		event.Err(original).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("clientIP", c.ClientIP()).
			Int("status", status).
			Msg(message)

		c.JSON(status, dto.NewErrorResponse(http.StatusText(status), message))
	}
}

// Recovery turns a panic into the 500 envelope
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		message := fmt.Sprint(recovered)
		logger.Error().
			Str("panic", message).
			Str("stack", string(debug.Stack())).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("clientIP", c.ClientIP()).
			Msg("Recovered from panic")

		if production {
			message = GenericErrorMessage
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponse(http.StatusText(http.StatusInternalServerError), message))
	})
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(
		http.StatusText(http.StatusNotFound),
		fmt.Sprintf("Route %s %s not found.", c.Request.Method, c.Request.URL.RequestURI()),
	))
}
