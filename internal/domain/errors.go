// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// Source-related errors
	ErrSourceTooLarge  = errors.New("source too large")
	ErrUnsupportedFile = errors.New("unsupported file type")

	// Grammar-related errors
	ErrInvalidGrammar = errors.New("invalid grammar")
)
