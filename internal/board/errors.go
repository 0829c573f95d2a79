package board

import (
	"errors"
	"fmt"
)

// Sentinel errors for the coordinator's failure taxonomy. Handlers map these
// to HTTP statuses; callers test with errors.Is.
var (
	// ErrDenied means the actor's role lacks the required capability. The
	// operation is rejected before any store call.
	ErrDenied = errors.New("permission denied")

	// ErrValidation means the request is malformed (empty title, unknown
	// status). Also rejected before any store call.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the referenced task or project does not exist.
	ErrNotFound = errors.New("not found")
)

func deniedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDenied, fmt.Sprintf(format, args...))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
