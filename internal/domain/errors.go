package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidSessionMode is returned when a session mode is not one of
	// the supported modes.
	ErrInvalidSessionMode = errors.New("invalid session mode")

	// ErrInvalidTestStatus is returned when a test status is not valid.
	ErrInvalidTestStatus = errors.New("invalid test status")

	// ErrUnauthorized is returned when an operation is not permitted
	// because the caller does not own the referenced entity.
	ErrUnauthorized = errors.New("unauthorized operation")
)
