package models

import (
	"regexp"

	"github.com/Eursukkul/expo-draw-service/internal/apperr"
)

var phonePattern = regexp.MustCompile(`^\d{11}$`)

var (
	ErrInvalidPhone = apperr.New(apperr.KindInvalidInput, "phone", "phone must be exactly 11 digits")
	ErrMissingField = apperr.New(apperr.KindInvalidInput, "missing", "required field is empty")
)

// ValidPhone reports whether phone is an 11-digit numeric string.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
