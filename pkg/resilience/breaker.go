package resilience

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

type breakerState int32

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker tracks consecutive failures for a single provider.
// Closed moves to Open once the failure threshold is hit, Open fails fast
// until the cool down elapses, Half-Open allows exactly one trial call.
// All transitions are compare-and-set so concurrent callers never race
type CircuitBreaker struct {
	Name             string
	FailureThreshold int32
	CoolDown         time.Duration

	state               atomic.Int32
	consecutiveFailures atomic.Int32
	openedAt            atomic.Int64
}

func NewCircuitBreaker(name string, failureThreshold int32, coolDown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		Name:             name,
		FailureThreshold: failureThreshold,
		CoolDown:         coolDown,
	}
}

// Allow reports whether a call may proceed. When the cool down has elapsed
// exactly one caller wins the Half-Open trial slot
func (b *CircuitBreaker) Allow(now time.Time) bool {
	switch breakerState(b.state.Load()) {
	case stateClosed:
		return true
	case stateOpen:
		openedAt := time.Unix(0, b.openedAt.Load())
		if now.Sub(openedAt) < b.CoolDown {
			return false
		}

		if b.state.CompareAndSwap(int32(stateOpen), int32(stateHalfOpen)) {
			log.Debug().Str("provider", b.Name).Msg("Circuit breaker half-open, allowing trial call")
			return true
		}

		return false
	default:
		// A trial call is already in flight
		return false
	}
}

func (b *CircuitBreaker) RecordSuccess() {
	if b.state.CompareAndSwap(int32(stateHalfOpen), int32(stateClosed)) {
		log.Info().Str("provider", b.Name).Msg("Circuit breaker closed")
	}

	b.consecutiveFailures.Store(0)
}

func (b *CircuitBreaker) RecordFailure(now time.Time) {
	if b.state.CompareAndSwap(int32(stateHalfOpen), int32(stateOpen)) {
		b.openedAt.Store(now.UnixNano())
		log.Warn().Str("provider", b.Name).Msg("Circuit breaker trial call failed, re-opening")
		return
	}

	failures := b.consecutiveFailures.Add(1)
	if failures >= b.FailureThreshold {
		if b.state.CompareAndSwap(int32(stateClosed), int32(stateOpen)) {
			b.openedAt.Store(now.UnixNano())
			log.Warn().
				Str("provider", b.Name).
				Int32("failures", failures).
				Msg("Circuit breaker opened")
		}
	}
}
