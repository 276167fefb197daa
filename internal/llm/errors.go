package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the model endpoint is unreachable.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrUnauthorized indicates the provider rejected the API key.
	ErrUnauthorized = errors.New("llm provider rejected credentials")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)

// statusError is a non-2xx response from the provider.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// retryable reports whether another attempt could succeed.
func (e *statusError) retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
