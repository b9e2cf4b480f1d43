package common

import (
	"errors"
	"fmt"
)

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Catalog errors
	ErrEmojiNotFound    = errors.New("emoji not found")
	ErrCategoryNotFound = errors.New("category not found")

	// Dataset errors
	ErrNoDataset     = errors.New("no dataset available")
	ErrStorageFailed = errors.New("override storage failed")

	// Render errors
	ErrRenderFailed        = errors.New("render failed")
	ErrRendererUnavailable = errors.New("renderer unavailable")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError is returned when a proposed dataset is rejected.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Reason  string
	Skipped int
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(skipped int, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...), Skipped: skipped}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
