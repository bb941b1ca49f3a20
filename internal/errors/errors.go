package errors

import (
	"errors"
	"fmt"
)

// Common error types for the SecureCrop client
var (
	// Session errors
	ErrNoSession       = errors.New("no session")
	ErrSessionCorrupt  = errors.New("session data is corrupt")
	ErrSessionSealed   = errors.New("session is sealed and no key was supplied")
	ErrSessionKeyWrong = errors.New("session key does not open the stored session")

	// Token errors
	ErrInvalidToken    = errors.New("invalid token")
	ErrMissingExpiry   = errors.New("token has no expiry")
	ErrRefreshRejected = errors.New("refresh token rejected")

	// Input errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrOutOfRange     = errors.New("value out of range")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrUnsupported = errors.New("unsupported operation")
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
