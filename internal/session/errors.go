package session

import "errors"

var (
	// ErrAuthFailure is the one message shown for any failed login.
	// It never tells which factor (email, role or password) was wrong.
	ErrAuthFailure = errors.New("invalid email or password")

	// ErrCorruptSession marks stored session data that could not be decoded.
	// It is logged and recovered from, never surfaced to the user.
	ErrCorruptSession = errors.New("corrupt session data")

	// ErrUnresolved is returned by Login before Restore has run.
	ErrUnresolved = errors.New("session not resolved yet")

	// ErrStorage wraps failures of the durable session storage.
	ErrStorage = errors.New("session storage failure")
)
