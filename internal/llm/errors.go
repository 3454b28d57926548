package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// TransientBackendError represents a retriable backend failure such as a
// rate limit or timeout. The invoker retries these internally before
// surfacing them.
type TransientBackendError struct {
	Message string
	Cause   error
}

func (e *TransientBackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transient backend error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transient backend error: %s", e.Message)
}

func (e *TransientBackendError) Unwrap() error {
	return e.Cause
}

// FatalBackendError represents a non-retriable backend failure such as a
// malformed request or an authentication problem.
type FatalBackendError struct {
	Message string
	Cause   error
}

func (e *FatalBackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fatal backend error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("fatal backend error: %s", e.Message)
}

func (e *FatalBackendError) Unwrap() error {
	return e.Cause
}

// isTransient classifies a raw backend error. Rate limits, server-side
// failures, and call deadlines are retriable; everything else is fatal.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}

// classify wraps a raw backend error into the invoker's error taxonomy
func classify(err error) error {
	if isTransient(err) {
		return &TransientBackendError{Message: "generation call failed", Cause: err}
	}
	return &FatalBackendError{Message: "generation call failed", Cause: err}
}
