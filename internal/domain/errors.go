package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, repositories and the HTTP layer.
var (
	// ErrInvalidInput is returned when required input is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidFilter is returned for unknown query fields or operators, more than
	// one inequality field, or a value that does not parse for its field.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller does not own the entity it modifies.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned when the caller lacks the role an operation needs.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when an operation conflicts with the current state.
	ErrConflict = errors.New("conflict")
	// ErrTransient is returned when a transaction kept losing commit races.
	ErrTransient = errors.New("transient failure, please retry")

	// ErrTxConflict is reported by repositories when a transaction could not commit
	// because a concurrent transaction touched the same records. Services retry it.
	ErrTxConflict = errors.New("transaction conflict")
)

// Conflict reasons for conference registration.
var (
	ErrAlreadyRegistered = fmt.Errorf("%w: you have already registered for this conference", ErrConflict)
	ErrNoSeatsAvailable  = fmt.Errorf("%w: there are no seats available", ErrConflict)
)

// InvalidInput wraps ErrInvalidInput with a message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// InvalidFilter wraps ErrInvalidFilter with a message.
func InvalidFilter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFilter, fmt.Sprintf(format, args...))
}
