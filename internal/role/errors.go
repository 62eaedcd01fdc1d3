package role

import "errors"

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("invalid role input")
	// ErrNotFound is returned when no role has the requested id.
	ErrNotFound = errors.New("role not found")
	// ErrTransport is returned when the backend is unreachable or answers with garbage.
	ErrTransport = errors.New("role backend unavailable")
	// ErrConfirmation is returned for an unknown, used or expired delete token.
	ErrConfirmation = errors.New("delete confirmation is invalid or expired")
)

// ValidationError names the input field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
