package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leavenow/leavenow/pkg/travel"
)

func TestCircuitBreakerTransitions(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	breaker := NewCircuitBreaker("test", 3, 30*time.Second)

	if !breaker.Allow(now) {
		t.Fatalf("closed breaker should allow calls")
	}

	breaker.RecordFailure(now)
	breaker.RecordFailure(now)
	if !breaker.Allow(now) {
		t.Fatalf("breaker should stay closed below the failure threshold")
	}

	breaker.RecordFailure(now)
	if breaker.Allow(now) {
		t.Fatalf("breaker should open after 3 consecutive failures")
	}

	if breaker.Allow(now.Add(29 * time.Second)) {
		t.Fatalf("breaker should reject calls within the cool down")
	}

	// Cool down elapsed - exactly one trial call is allowed
	trialTime := now.Add(31 * time.Second)
	if !breaker.Allow(trialTime) {
		t.Fatalf("breaker should allow a trial call after the cool down")
	}
	if breaker.Allow(trialTime) {
		t.Fatalf("breaker should only allow one trial call in half-open")
	}

	// Failed trial re-opens & resets the cool down
	breaker.RecordFailure(trialTime)
	if breaker.Allow(trialTime.Add(29 * time.Second)) {
		t.Fatalf("failed trial should restart the cool down")
	}

	retryTime := trialTime.Add(31 * time.Second)
	if !breaker.Allow(retryTime) {
		t.Fatalf("breaker should allow another trial after the second cool down")
	}

	breaker.RecordSuccess()
	if !breaker.Allow(retryTime) {
		t.Fatalf("successful trial should close the breaker")
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	breaker := NewCircuitBreaker("test", 3, 30*time.Second)

	breaker.RecordFailure(now)
	breaker.RecordFailure(now)
	breaker.RecordSuccess()
	breaker.RecordFailure(now)
	breaker.RecordFailure(now)

	if !breaker.Allow(now) {
		t.Fatalf("non-consecutive failures should not open the breaker")
	}
}

func TestWrapperRetriesTransientErrors(t *testing.T) {
	wrapper := NewWrapper("test")
	wrapper.MaxRetries = 2

	calls := 0
	err := wrapper.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("%w: flaky", travel.ErrProvider)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWrapperDoesNotRetryPermanentErrors(t *testing.T) {
	wrapper := NewWrapper("test")

	calls := 0
	err := wrapper.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: bad coordinates", travel.ErrInvalidInput)
	})

	if !errors.Is(err, travel.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestWrapperFailsFastWhenCircuitOpen(t *testing.T) {
	wrapper := NewWrapper("test")
	wrapper.MaxRetries = 0
	wrapper.Breaker = NewCircuitBreaker("test", 2, 30*time.Second)

	transientFailure := func(ctx context.Context) error {
		return fmt.Errorf("%w: down", travel.ErrProvider)
	}

	wrapper.Do(context.Background(), transientFailure)
	wrapper.Do(context.Background(), transientFailure)

	calls := 0
	err := wrapper.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	if !errors.Is(err, travel.ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("open breaker should not contact the provider, got %d calls", calls)
	}
}

func TestWrapperMapsAttemptTimeout(t *testing.T) {
	wrapper := NewWrapper("test")
	wrapper.Timeout = 10 * time.Millisecond
	wrapper.MaxRetries = 1

	calls := 0
	err := wrapper.Do(context.Background(), func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	})

	if !errors.Is(err, travel.ErrUpstreamTimeout) {
		t.Fatalf("expected upstream timeout, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("timeouts should be retried, calls = %d, want 2", calls)
	}
}
