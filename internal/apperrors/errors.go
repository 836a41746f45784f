package apperrors

import (
	"errors"
)

var (
	// Local-call failures: never tear down an existing session
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOtpRejected        = errors.New("otp code rejected")
	ErrValidation         = errors.New("validation failed")

	// Classified HTTP failures
	ErrNetwork      = errors.New("network unreachable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")

	ErrNoSession = errors.New("no active session")
)
