package tts

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a synthesis failure for the retry policy.
type ErrorKind int

const (
	// KindPermanent covers auth failures, malformed requests, and anything
	// else retrying cannot fix. The turn is abandoned immediately.
	KindPermanent ErrorKind = iota

	// KindRateLimited means the provider rejected the call on quota.
	// Retried with a growing backoff.
	KindRateLimited

	// KindEmptyResponse means the provider claimed success but produced no
	// audio payload. Retried after a short fixed cooldown.
	KindEmptyResponse
)

// String returns the kind's log label.
func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindEmptyResponse:
		return "empty_response"
	default:
		return "permanent"
	}
}

// Error is a classified synthesis failure. Adapters set Kind from their
// provider's structured error signals; the scheduler never matches on
// message text.
type Error struct {
	Mode Mode
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tts: %s: %s: %v", e.Mode, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RateLimited wraps err as a rate-limit failure.
func RateLimited(mode Mode, err error) *Error {
	return &Error{Mode: mode, Kind: KindRateLimited, Err: err}
}

// EmptyResponse wraps err as an empty-audio failure.
func EmptyResponse(mode Mode, err error) *Error {
	return &Error{Mode: mode, Kind: KindEmptyResponse, Err: err}
}

// Permanent wraps err as a non-retryable failure.
func Permanent(mode Mode, err error) *Error {
	return &Error{Mode: mode, Kind: KindPermanent, Err: err}
}

// Classify extracts the error kind. Unclassified errors (I/O, context
// cancellation) count as permanent: not worth a retry budget.
func Classify(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPermanent
}
