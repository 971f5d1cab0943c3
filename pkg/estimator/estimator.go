package estimator

import (
	"context"
	"time"

	"github.com/leavenow/leavenow/pkg/travel"
)

// Estimator is the uniform contract every transport mode provider implements,
// live or stub
type Estimator interface {
	Name() string
	Estimate(ctx context.Context, request travel.EstimateRequest) (travel.RawEstimate, error)
}

// Forecaster is the parallel contract for weather providers
type Forecaster interface {
	Name() string
	Forecast(ctx context.Context, location travel.Coordinate, windowStart time.Time, windowEnd time.Time) (travel.WeatherSnapshot, error)
}
