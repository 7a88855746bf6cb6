package retry

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is matched by every *TimeoutError.
	ErrTimeout = errors.New("attempt timed out")

	// ErrExhausted is matched by every *ExhaustedError.
	ErrExhausted = errors.New("retries exhausted")
)

// TimeoutError is the synthetic failure recorded when an attempt outlives its deadline.
type TimeoutError struct {
	Label   string
	Attempt int
	Timeout time.Duration
	// Cause is the operation's own error when it returned after observing the deadline.
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: attempt %d timed out after %v", e.Label, e.Attempt, e.Timeout)
}

// Is reports ErrTimeout equality so callers can use errors.Is(err, ErrTimeout).
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap returns the operation's own error, if any.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ExhaustedError is returned by Do once every attempt has failed.
type ExhaustedError struct {
	Label    string
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: max retry attempts (%d) exceeded: %v", e.Label, e.Attempts, e.Err)
}

// Is reports ErrExhausted equality.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Unwrap returns the last underlying error.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// PermanentError wraps errors that should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps an error to indicate it should not be retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent checks if an error is marked as non-retryable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
