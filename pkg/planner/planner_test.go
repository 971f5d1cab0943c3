package planner

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/leavenow/leavenow/pkg/estimator"
	"github.com/leavenow/leavenow/pkg/resilience"
	"github.com/leavenow/leavenow/pkg/travel"
)

var (
	testOrigin      = travel.Coordinate{Latitude: 51.5072, Longitude: -0.1276}
	testDestination = travel.Coordinate{Latitude: 51.5226, Longitude: -0.1132}
	testNow         = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
)

type fixedBuffers struct {
	buffers travel.BufferSet
	err     error
}

func (f fixedBuffers) GetBufferSet(ctx context.Context, preferencesID string, venueID string) (travel.BufferSet, error) {
	return f.buffers, f.err
}

// newTestPlanner wires stub estimators with a forced weather outcome & a
// fixed clock
func newTestPlanner(precipitation bool, buffers BufferLookup) *Planner {
	stubPlanner := NewStubPlanner(nil, buffers)
	stubPlanner.Now = func() time.Time { return testNow }
	stubPlanner.Weather.Client = &estimator.MockForecaster{PrecipitationExpected: precipitation}

	return stubPlanner
}

func TestBuildPlanOnTime(t *testing.T) {
	// ~2.2km trip, deadline 40 minutes out, no rain
	testPlanner := newTestPlanner(false, fixedBuffers{buffers: travel.BufferSet{PrepSeconds: 600}})
	arriveBy := testNow.Add(40 * time.Minute)

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "prefs-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.ChosenMode != travel.TravelModeDrive {
		t.Fatalf("chosen = %s, want DRIVE", plan.ChosenMode)
	}
	if plan.ETASeconds != estimator.StubDriveETASeconds+600 {
		t.Fatalf("eta = %d, want stub drive eta plus prep", plan.ETASeconds)
	}
	if plan.AlreadyLate {
		t.Fatalf("plan should not be late with a 40 minute deadline")
	}
	if plan.MinutesLate != 0 {
		t.Fatalf("minutesLate = %d, want 0", plan.MinutesLate)
	}
	if !plan.ExpectedArrival.Equal(arriveBy) {
		t.Fatalf("a feasible plan should arrive exactly at the deadline, got %s", plan.ExpectedArrival)
	}
}

func TestBuildPlanAlreadyLate(t *testing.T) {
	testPlanner := newTestPlanner(false, nil)
	arriveBy := testNow.Add(5 * time.Minute)

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "", "")
	if err != nil {
		t.Fatalf("the engine must not fail when every mode is late: %v", err)
	}

	if !plan.AlreadyLate {
		t.Fatalf("expected alreadyLate with a 5 minute deadline")
	}
	if !plan.LeaveBy.Equal(testNow) {
		t.Fatalf("leaveBy = %s, want now", plan.LeaveBy)
	}

	// Best mode is DRIVE at 1500s, 1200s past a 300s deadline
	if plan.MinutesLate != 20 {
		t.Fatalf("minutesLate = %d, want 20", plan.MinutesLate)
	}
}

func TestBuildPlanWeatherPenalty(t *testing.T) {
	testPlanner := newTestPlanner(true, fixedBuffers{buffers: travel.BufferSet{PrepSeconds: 600}})
	arriveBy := testNow.Add(time.Hour)

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "prefs-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var driveEstimate *travel.AdjustedEstimate
	candidates := append([]travel.AdjustedEstimate{{
		Mode:               plan.ChosenMode,
		AdjustedETASeconds: plan.ETASeconds,
	}}, plan.Alternatives...)

	for _, estimate := range candidates {
		if estimate.Mode == travel.TravelModeDrive {
			driveEstimate = &estimate
			break
		}
	}
	if driveEstimate == nil {
		t.Fatalf("no drive estimate in plan")
	}

	// Exactly 6% above the raw stub ETA, plus the prep buffer
	if driveEstimate.AdjustedETASeconds != 1590+600 {
		t.Fatalf("drive eta = %d, want 2190", driveEstimate.AdjustedETASeconds)
	}

	// Rain makes schedule-bound transit the better pick
	if plan.ChosenMode != travel.TravelModeTransit {
		t.Fatalf("chosen = %s, want TRANSIT in rain", plan.ChosenMode)
	}
}

func TestBuildPlanExplanationOrdering(t *testing.T) {
	testPlanner := newTestPlanner(true, fixedBuffers{buffers: travel.BufferSet{PrepSeconds: 600, ParkingSeconds: 180}})
	arriveBy := testNow.Add(time.Hour)

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "prefs-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, alternative := range plan.Alternatives {
		if alternative.Mode != travel.TravelModeDrive {
			continue
		}

		weatherIndex := -1
		bufferIndex := -1
		for i, descriptor := range alternative.Explanation {
			if strings.Contains(descriptor, "rain") {
				weatherIndex = i
			}
			if strings.Contains(descriptor, "prep") && bufferIndex == -1 {
				bufferIndex = i
			}
		}

		if weatherIndex == -1 || bufferIndex == -1 {
			t.Fatalf("drive explanation missing descriptors: %v", alternative.Explanation)
		}
		if weatherIndex > bufferIndex {
			t.Fatalf("weather descriptor must come before buffer descriptors: %v", alternative.Explanation)
		}
	}
}

func TestBuildPlanArrivalArithmetic(t *testing.T) {
	testPlanner := newTestPlanner(false, fixedBuffers{buffers: travel.BufferSet{PrepSeconds: 600}})

	for _, deadline := range []time.Duration{5 * time.Minute, 40 * time.Minute, 2 * time.Hour} {
		plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, testNow.Add(deadline), "prefs-1", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := plan.LeaveBy.Add(time.Duration(plan.ETASeconds) * time.Second)
		if !expected.Equal(plan.ExpectedArrival) {
			t.Fatalf("leaveBy + eta = %s, want expectedArrival %s", expected, plan.ExpectedArrival)
		}

		arriveBy := testNow.Add(deadline)
		if plan.AlreadyLate != plan.ExpectedArrival.After(arriveBy) {
			t.Fatalf("alreadyLate = %t inconsistent with expectedArrival %s vs arriveBy %s",
				plan.AlreadyLate, plan.ExpectedArrival, arriveBy)
		}

		for _, alternative := range plan.Alternatives {
			if alternative.Mode == plan.ChosenMode {
				t.Fatalf("alternatives contain the chosen mode %s", plan.ChosenMode)
			}
		}
	}
}

func TestBuildPlanDeterministic(t *testing.T) {
	testPlanner := newTestPlanner(false, fixedBuffers{buffers: travel.BufferSet{PrepSeconds: 600}})
	arriveBy := testNow.Add(40 * time.Minute)

	first, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "prefs-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "prefs-1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different plans:\n%+v\n%+v", first, second)
	}
}

func TestBuildPlanInvalidInput(t *testing.T) {
	testPlanner := newTestPlanner(false, nil)

	_, err := testPlanner.BuildPlan(context.Background(), travel.Coordinate{Latitude: 91}, testDestination, testNow.Add(time.Hour), "", "")
	if !errors.Is(err, travel.ErrInvalidInput) {
		t.Fatalf("expected invalid input for out of range latitude, got %v", err)
	}

	_, err = testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, time.Time{}, "", "")
	if !errors.Is(err, travel.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero arrive-by, got %v", err)
	}
}

func TestBuildPlanBufferLookupDegradesToZero(t *testing.T) {
	testPlanner := newTestPlanner(false, fixedBuffers{err: errors.New("lookup backend down")})
	arriveBy := testNow.Add(40 * time.Minute)

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, arriveBy, "prefs-1", "venue-1")
	if err != nil {
		t.Fatalf("buffer lookup failure must not fail the plan: %v", err)
	}

	if plan.ETASeconds != estimator.StubDriveETASeconds {
		t.Fatalf("eta = %d, want the raw stub eta with zero buffers", plan.ETASeconds)
	}
}

func TestBuildPlanFallsBackToStubOnProviderFailure(t *testing.T) {
	testPlanner := newTestPlanner(false, nil)

	failing := &estimator.MockEstimator{
		Mode: travel.TravelModeDrive,
		Err:  fmt.Errorf("%w: upstream 503", travel.ErrProvider),
	}
	testPlanner.Providers[travel.TravelModeDrive].Client = failing
	testPlanner.Providers[travel.TravelModeDrive].Wrapper.MaxRetries = 0

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, testNow.Add(time.Hour), "", "")
	if err != nil {
		t.Fatalf("provider failure must not fail the plan: %v", err)
	}

	if plan.ChosenMode != travel.TravelModeDrive {
		t.Fatalf("chosen = %s, want DRIVE from the stub fallback", plan.ChosenMode)
	}
	if plan.ETASeconds != estimator.StubDriveETASeconds {
		t.Fatalf("eta = %d, want the stub fallback eta", plan.ETASeconds)
	}
}

func TestBuildPlanCircuitBreakerShortCircuits(t *testing.T) {
	testPlanner := newTestPlanner(false, nil)

	failing := &estimator.MockEstimator{
		Mode: travel.TravelModeDrive,
		Err:  fmt.Errorf("%w: upstream 503", travel.ErrProvider),
	}
	provider := testPlanner.Providers[travel.TravelModeDrive]
	provider.Client = failing
	provider.Wrapper.MaxRetries = 0
	provider.Wrapper.Breaker = resilience.NewCircuitBreaker("drive", 2, 30*time.Second)

	for range 2 {
		if _, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, testNow.Add(time.Hour), "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	callsBeforeOpen := failing.Calls()
	if callsBeforeOpen != 2 {
		t.Fatalf("calls = %d, want 2 before the breaker opens", callsBeforeOpen)
	}

	plan, err := testPlanner.BuildPlan(context.Background(), testOrigin, testDestination, testNow.Add(time.Hour), "", "")
	if err != nil {
		t.Fatalf("open breaker must not fail the plan: %v", err)
	}

	if failing.Calls() != callsBeforeOpen {
		t.Fatalf("open breaker should short-circuit without contacting the provider")
	}
	if plan.ChosenMode != travel.TravelModeDrive {
		t.Fatalf("chosen = %s, want DRIVE from the stub fallback", plan.ChosenMode)
	}
}
