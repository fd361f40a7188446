package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnauthorized indicates the provider rejected our credential (401/403).
type ErrUnauthorized struct {
	Err error
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("LLM provider rejected credentials: %v", e.Err)
}

func (e *ErrUnauthorized) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down, unreachable, or timed out.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrMalformed indicates the provider returned a success status but the
// body carried no usable generated text.
type ErrMalformed struct {
	Body string
	Err  error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed LLM response: %v", e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// IsGatewayError reports whether err is one of the typed gateway failures,
// as opposed to an unexpected error from elsewhere in the call path.
func IsGatewayError(err error) bool {
	var unauth *ErrUnauthorized
	var rate *ErrRateLimit
	var unavail *ErrUnavailable
	var malformed *ErrMalformed
	return errors.As(err, &unauth) ||
		errors.As(err, &rate) ||
		errors.As(err, &unavail) ||
		errors.As(err, &malformed)
}
