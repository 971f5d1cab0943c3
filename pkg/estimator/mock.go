package estimator

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/leavenow/leavenow/pkg/travel"
)

// MockEstimator is a configurable in-memory provider for tests
type MockEstimator struct {
	Mode            travel.TravelMode
	ETASeconds      int
	BaseReliability float64

	Err   error
	Delay time.Duration

	calls atomic.Int64
}

func (e *MockEstimator) Name() string {
	return "mock-" + string(e.Mode)
}

func (e *MockEstimator) Estimate(ctx context.Context, request travel.EstimateRequest) (travel.RawEstimate, error) {
	e.calls.Add(1)

	if e.Delay > 0 {
		select {
		case <-time.After(e.Delay):
		case <-ctx.Done():
			return travel.RawEstimate{}, ctx.Err()
		}
	}

	if e.Err != nil {
		return travel.RawEstimate{}, e.Err
	}

	baseReliability := e.BaseReliability
	if baseReliability == 0 {
		baseReliability = stubBaseReliability
	}

	return travel.RawEstimate{
		Mode:            e.Mode,
		ETASeconds:      e.ETASeconds,
		BaseReliability: baseReliability,
	}, nil
}

func (e *MockEstimator) Calls() int {
	return int(e.calls.Load())
}

// MockForecaster always reports the configured precipitation
type MockForecaster struct {
	PrecipitationExpected bool

	calls atomic.Int64
}

func (f *MockForecaster) Name() string {
	return "mock-weather"
}

func (f *MockForecaster) Forecast(ctx context.Context, location travel.Coordinate, windowStart time.Time, windowEnd time.Time) (travel.WeatherSnapshot, error) {
	f.calls.Add(1)

	return travel.WeatherSnapshot{
		PrecipitationExpected: f.PrecipitationExpected,
		WindowStart:           windowStart,
		WindowEnd:             windowEnd,
	}, nil
}

func (f *MockForecaster) Calls() int {
	return int(f.calls.Load())
}
