// errors.go
package wupd

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPackage indicates the package id is invalid
	ErrInvalidPackage = errors.New("invalid package")

	// ErrBackendNotAvailable indicates winget could not be located
	ErrBackendNotAvailable = errors.New("winget not available")

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = errors.New("platform not supported")

	// ErrLocked indicates another upgrade batch holds the process lock
	ErrLocked = errors.New("another upgrade is already running")

	// ErrHeld indicates the package is on the holds list
	ErrHeld = errors.New("package is held")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package id if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
