package errors

import (
	"errors"
	"fmt"
)

// Common error types for the storefront client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginSuperseded    = errors.New("login superseded by a newer attempt")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Registration errors
	ErrInvalidRegistration = errors.New("invalid registration")

	// Backend errors
	ErrUnexpectedStatus = errors.New("unexpected status")

	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
