package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/google/logger"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler renders every error as {"error": reason, "message": text}.
// The reason comes from the *apperr.Error behind the failure when there is
// one, otherwise from the status code.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := StatusOf(err)
	msg := err.Error()
	cause := err

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
		cause = he.Internal
	}

	reason := reasonForStatus(code)
	var appErr *apperr.Error
	if errors.As(cause, &appErr) {
		reason = appErr.Reason
	}

	if code >= http.StatusInternalServerError {
		logger.Errorf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		msg = http.StatusText(code)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorBody{Error: reason, Message: msg})
}

// StatusOf maps an error's kind onto an HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func reasonForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "invalid"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	default:
		if code >= http.StatusInternalServerError {
			return "internal"
		}
		return "error"
	}
}
