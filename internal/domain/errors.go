package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a local, pre-network rejection of user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NetworkError is a transport failure: no HTTP response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a backend response with status >= 400.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// UserMessage returns the text shown to the user for err.
// Validation and API errors carry their own message; anything else is reported with fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Network error: " + ne.Err.Error()
	}
	return fallback
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
