package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/middleware"
	"github.com/Eursukkul/expo-draw-service/internal/service"
	"github.com/labstack/echo/v4"
)

// httpError maps a service error onto its HTTP status, keeping the error as
// the cause so the error handler can report its reason.
func httpError(err error) error {
	code := middleware.StatusOf(err)
	if errors.Is(err, service.ErrAlreadyDrawn) {
		// Clients have always seen "drawn" as a 400.
		code = http.StatusBadRequest
	}
	return &echo.HTTPError{Code: code, Message: err.Error(), Internal: err}
}

// badRequest rejects malformed input before it reaches a service.
func badRequest(reason, message string) error {
	return httpError(apperr.New(apperr.KindInvalidInput, reason, message))
}
