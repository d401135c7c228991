package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks missing or invalid credentials/configuration. Never retried.
	ErrConfig = errors.New("invalid configuration")
	// ErrFutureDate marks a requested period that lies wholly in the future.
	ErrFutureDate = errors.New("requested period is in the future")
	// ErrInvalidRange marks a requested period that resolves to no valid days.
	ErrInvalidRange = errors.New("no valid day range")

	// Transient provider failures, retried by the HTTP client.
	ErrRateLimited = errors.New("rate limited")
	ErrServer      = errors.New("server error")
	ErrNetwork     = errors.New("network error")
)

// RetryExhaustedError is returned once the retry budget for a single logical
// fetch is spent. It carries the total attempt count and the last failure.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("max retries exceeded after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
