package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/leavenow/leavenow/pkg/travel"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout          = 3 * time.Second
	defaultMaxRetries       = 3
	defaultFailureThreshold = 5
	defaultCoolDown         = 30 * time.Second
	defaultInitialInterval  = 100 * time.Millisecond
)

// Wrapper applies a per-call timeout, retry with exponential backoff & jitter,
// and a circuit breaker around a single provider. Timeouts are per attempt,
// not per overall request, so one slow provider can be individually bypassed
type Wrapper struct {
	Name       string
	Timeout    time.Duration
	MaxRetries uint64
	Breaker    *CircuitBreaker

	Now func() time.Time
}

func NewWrapper(name string) *Wrapper {
	return &Wrapper{
		Name:       name,
		Timeout:    defaultTimeout,
		MaxRetries: defaultMaxRetries,
		Breaker:    NewCircuitBreaker(name, defaultFailureThreshold, defaultCoolDown),
		Now:        time.Now,
	}
}

// Do runs call under the wrapper policy. Transient provider errors & timeouts
// are retried, anything else is returned immediately. An open breaker fails
// fast with travel.ErrCircuitOpen without contacting the provider
func (w *Wrapper) Do(ctx context.Context, call func(ctx context.Context) error) error {
	if !w.Breaker.Allow(w.Now()) {
		return fmt.Errorf("%w: %s", travel.ErrCircuitOpen, w.Name)
	}

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, w.Timeout)
		defer cancel()

		err := call(attemptCtx)

		if err == nil {
			w.Breaker.RecordSuccess()
			return nil
		}

		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: %s: %s", travel.ErrUpstreamTimeout, w.Name, err)
		}

		if travel.IsTransient(err) {
			w.Breaker.RecordFailure(w.Now())
			log.Debug().Err(err).Str("provider", w.Name).Msg("Provider call failed, retrying")
			return err
		}

		// Caller cancellation & invalid input are not provider faults
		return backoff.Permanent(err)
	}

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = defaultInitialInterval

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(retryBackoff, w.MaxRetries), ctx))
}
