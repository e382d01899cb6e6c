// Package common defines sentinel errors and small helpers shared by the
// journal client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Import errors.
	ErrValidation = errors.New("validation error")
	ErrLocked     = errors.New("another import is in progress")
)
