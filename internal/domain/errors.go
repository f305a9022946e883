package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyName is returned when a user's name is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyEmail is returned when an email address is empty.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrPasswordTooShort is returned when a password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's practical limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrEmptyPassword is returned when neither a plaintext nor a hashed password is set.
	ErrEmptyPassword = errors.New("password cannot be empty")
)
