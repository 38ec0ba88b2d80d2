package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter marks a required identifier or date that was not supplied.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrInvalidInput marks a value that could not be parsed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataAccess wraps store failures; the store error stays in the chain.
	ErrDataAccess = errors.New("data access failure")
)

func missingParameter(name string) error {
	return fmt.Errorf("%w: %s is required", ErrMissingParameter, name)
}

func invalidInput(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
}

func dataAccess(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataAccess, step, err)
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingParameter) || errors.Is(err, ErrInvalidInput)
}
