package estimator

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/leavenow/leavenow/pkg/travel"
)

// Fixed stub ETAs per mode. These keep the whole engine exercisable without
// external credentials & make plans exactly reproducible
const (
	StubDriveETASeconds   = 1500
	StubCabETASeconds     = 1560
	StubTransitETASeconds = 1675
	StubWalkETASeconds    = 4200

	stubBaseReliability = 0.95
)

type StubEstimator struct {
	Mode travel.TravelMode
}

func (e StubEstimator) Name() string {
	return fmt.Sprintf("stub-%s", e.Mode)
}

// Estimate is a pure function of its input & never fails
func (e StubEstimator) Estimate(ctx context.Context, request travel.EstimateRequest) (travel.RawEstimate, error) {
	var etaSeconds int

	switch e.Mode {
	case travel.TravelModeDrive:
		etaSeconds = StubDriveETASeconds
	case travel.TravelModeTransit:
		etaSeconds = StubTransitETASeconds
	case travel.TravelModeWalk:
		etaSeconds = StubWalkETASeconds
	case travel.TravelModeCab:
		etaSeconds = StubCabETASeconds
	}

	return travel.RawEstimate{
		Mode:            e.Mode,
		ETASeconds:      etaSeconds,
		BaseReliability: stubBaseReliability,
	}, nil
}

const stubPrecipitationPercent = 30

// StubForecaster produces precipitation as a deterministic function of
// (coordinate, time bucket, seed) rather than true randomness, so repeated
// calls within the same cache window are stable
type StubForecaster struct {
	Seed         uint64
	BucketLength time.Duration
}

func (f StubForecaster) Name() string {
	return "stub-weather"
}

func (f StubForecaster) Forecast(ctx context.Context, location travel.Coordinate, windowStart time.Time, windowEnd time.Time) (travel.WeatherSnapshot, error) {
	bucketLength := f.BucketLength
	if bucketLength == 0 {
		bucketLength = 5 * time.Minute
	}

	bucket := windowStart.Truncate(bucketLength).Unix()

	hash := fnv.New64a()
	fmt.Fprintf(hash, "%d/%.4f/%.4f/%d", f.Seed, location.Latitude, location.Longitude, bucket)

	return travel.WeatherSnapshot{
		PrecipitationExpected: hash.Sum64()%100 < stubPrecipitationPercent,
		WindowStart:           windowStart,
		WindowEnd:             windowEnd,
	}, nil
}
