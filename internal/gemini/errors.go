package gemini

import (
	"errors"
	"fmt"
	"net"
)

// ErrEmptyResponse is returned when the model produced no text at all. This
// is a permanent failure; resending the same request will not help.
var ErrEmptyResponse = errors.New("no response text generated")

// APIError is a non-2xx response from the Gemini API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini api error: status %d: %s", e.StatusCode, e.Message)
}

// BlockedError means the safety/policy feedback rejected the request.
// Never retried.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("content blocked by safety filters: %s", e.Reason)
}

// ProcessingFailedError means the uploaded asset ended in the FAILED state on
// the remote side. Never retried.
type ProcessingFailedError struct {
	FileName string
}

func (e *ProcessingFailedError) Error() string {
	return fmt.Sprintf("video processing failed for uploaded file %s", e.FileName)
}

// ConnectivityError marks DNS or connection-level failures, including the
// network preflight. Always transient.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("network connectivity issue: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether an error is a retryable external-failure
// signal: service unavailable, rate limited, or a connection/DNS problem.
// Everything else (policy blocks, bad input, asset failures) is permanent.
func IsTransient(err error) bool {
	var connErr *ConnectivityError
	if errors.As(err, &connErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode == 503
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
