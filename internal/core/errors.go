package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeSessionNotFound = "session_not_found"
	ErrCodeBadRequest      = "bad_request"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeUnavailable     = "unavailable"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrHubStopped      = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.err
}

func coreError(code string, err error) *CoreError {
	return &CoreError{Code: code, Message: err.Error(), err: err}
}

// ErrorCode returns the code carried by err, falling back to unavailable.
func ErrorCode(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeUnavailable
}
