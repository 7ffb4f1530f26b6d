package apperr

import (
	"errors"
	"fmt"
)

// ProviderError reports an upstream API failure (network error or
// non-2xx status). The message never contains credentials.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NotFoundError marks a referenced row that vanished between enqueue
// and job execution.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError marks malformed input, e.g. an embedding write with
// no source message reference.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// GenerationError marks a completion that succeeded at the transport
// level but produced no usable content.
type GenerationError struct {
	Msg string
}

func (e *GenerationError) Error() string { return e.Msg }
