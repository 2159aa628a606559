// ABOUTME: Error taxonomy for the completion boundary
// ABOUTME: TransportError and RateLimitError are retryable; callers use errors.As
package llm

import "fmt"

// TransportError is a network or API failure calling the completion
// endpoint. Retried with bounded backoff; once retries are exhausted the
// owning chunk is recorded as unresolved rather than failing the run.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("completion transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RateLimitError is a 429 from the completion endpoint. Retryable like a
// transport error but kept distinct so callers can back off differently or
// surface throttling in run summaries.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("completion rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }
