package core

import "errors"

// Error codes for domain errors surfaced to clients. A recipient being
// offline is not among them: delivery and signaling to an absent peer are
// documented no-ops, not failures.
const (
	ErrCodeValidation     = "validation_error"
	ErrCodeStorage        = "storage_error"
	ErrCodeInvalidMessage = "invalid_message"
)

var (
	ErrEmptyIdentity = errors.New("identity is required")
	ErrEmptyBody     = errors.New("body is required")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
