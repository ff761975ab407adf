package services

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when a user acts on a resource owned by someone else.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a create would duplicate a unique value.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned for an unknown login or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStorageUnavailable is returned by export operations when no object
	// storage backend is configured.
	ErrStorageUnavailable = errors.New("object storage is not configured")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
