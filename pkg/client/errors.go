package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrHostBlocked is returned when the target host is inside a
	// Retry-After window and the request was not sent.
	ErrHostBlocked = errors.New("host inside retry-after window")
)

// FetchError describes a failed page fetch with classification context.
type FetchError struct {
	URL        string
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s error (status %d): %s: %v",
			e.URL, e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s error (status %d): %s",
		e.URL, e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient:
		// 4xx errors are not transient
		return false
	case ErrorClassServer:
		return true
	case ErrorClassRateLimit:
		// 429 clears once the window passes
		return true
	case ErrorClassNetwork:
		return true
	default:
		return false
	}
}
