package travel

import "errors"

var (
	// ErrProvider is a transient upstream failure & is safe to retry
	ErrProvider = errors.New("provider failure")
	// ErrUpstreamTimeout is treated the same as ErrProvider for retry purposes
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrCircuitOpen is a fast-fail from an open circuit breaker, it triggers stub fallback
	ErrCircuitOpen = errors.New("circuit open")
	// ErrInvalidInput is surfaced to the caller verbatim & never retried
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoViableMode means every mode & every stub fallback failed to produce an estimate
	ErrNoViableMode = errors.New("no viable travel mode")
)

func IsTransient(err error) bool {
	return errors.Is(err, ErrProvider) || errors.Is(err, ErrUpstreamTimeout)
}
