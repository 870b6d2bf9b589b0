package service

import (
	"github.com/Eursukkul/expo-draw-service/internal/apperr"
	"github.com/Eursukkul/expo-draw-service/internal/models"
)

var (
	ErrInvalidPhone        = models.ErrInvalidPhone
	ErrMissingField        = models.ErrMissingField
	ErrNoActiveExhibition  = apperr.New(apperr.KindNotFound, "no_active", "no active exhibition")
	ErrExhibitionNotFound  = apperr.New(apperr.KindNotFound, "not_found", "exhibition not found")
	ErrExhibitionNameEmpty = apperr.New(apperr.KindInvalidInput, "missing", "exhibition name is required")
	ErrExhibitionActive    = apperr.New(apperr.KindConflict, "active", "cannot delete the active exhibition")
	ErrExhibitionHasData   = apperr.New(apperr.KindConflict, "has_data", "exhibition has check-ins; delete with force")
	ErrAlreadyDrawn        = apperr.New(apperr.KindConflict, "drawn", "phone has already drawn in this exhibition")
)
