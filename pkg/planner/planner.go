package planner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/leavenow/leavenow/pkg/estimator"
	"github.com/leavenow/leavenow/pkg/resilience"
	"github.com/leavenow/leavenow/pkg/resultcache"
	"github.com/leavenow/leavenow/pkg/travel"
	"github.com/leavenow/leavenow/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
)

// BufferLookup resolves the buffer set for a preferences/venue pair.
// A failure degrades to zero buffers rather than failing the whole plan
type BufferLookup interface {
	GetBufferSet(ctx context.Context, preferencesID string, venueID string) (travel.BufferSet, error)
}

// Provider pairs a mode's estimator with its resilience policy & the stub
// used when the live call cannot produce a result
type Provider struct {
	Client   estimator.Estimator
	Wrapper  *resilience.Wrapper
	Fallback estimator.Estimator
}

type WeatherProvider struct {
	Client   estimator.Forecaster
	Wrapper  *resilience.Wrapper
	Fallback estimator.Forecaster
}

// Planner coordinates one plan per request - fan out to providers, fan in
// results, compose penalties, select a mode. Constructed once at startup &
// shared across requests; all shared state lives in the cache & the breakers
type Planner struct {
	Providers map[travel.TravelMode]*Provider
	Weather   *WeatherProvider

	Cache   *resultcache.Cache
	Buffers BufferLookup

	Now func() time.Time
}

// NewPlanner wires live routing providers when LEAVENOW_ROUTING_ENDPOINT is
// configured, falling back to the all-stub wiring otherwise. Transit has no
// routing profile upstream & always resolves through the stub
func NewPlanner(resultCache *resultcache.Cache, buffers BufferLookup) *Planner {
	endpoint := util.GetEnvironmentVariable("LEAVENOW_ROUTING_ENDPOINT", "")

	stubPlanner := NewStubPlanner(resultCache, buffers)
	if endpoint == "" {
		return stubPlanner
	}

	for _, mode := range travel.AllTravelModes() {
		if mode == travel.TravelModeTransit {
			continue
		}

		client := &estimator.HTTPEstimator{Mode: mode, Endpoint: endpoint}
		stubPlanner.Providers[mode].Client = client
		stubPlanner.Providers[mode].Wrapper = resilience.NewWrapper(client.Name())
	}

	return stubPlanner
}

// NewStubPlanner wires every mode to its stub estimator. Used when no live
// provider credentials are configured & as the baseline for tests
func NewStubPlanner(resultCache *resultcache.Cache, buffers BufferLookup) *Planner {
	providers := map[travel.TravelMode]*Provider{}

	for _, mode := range travel.AllTravelModes() {
		stub := estimator.StubEstimator{Mode: mode}
		providers[mode] = &Provider{
			Client:   stub,
			Wrapper:  resilience.NewWrapper(stub.Name()),
			Fallback: stub,
		}
	}

	forecaster := estimator.StubForecaster{}

	return &Planner{
		Providers: providers,
		Weather: &WeatherProvider{
			Client:   forecaster,
			Wrapper:  resilience.NewWrapper(forecaster.Name()),
			Fallback: forecaster,
		},
		Cache:   resultCache,
		Buffers: buffers,
		Now:     time.Now,
	}
}

// BuildPlan answers "when must I leave to arrive on time" for one trip.
// Provider failures never fail the plan - every mode resolves through its
// stub fallback. Only invalid input & the defect-class no-viable-mode error
// reach the caller
func (p *Planner) BuildPlan(ctx context.Context, origin travel.Coordinate, destination travel.Coordinate, arriveBy time.Time, preferencesID string, venueID string) (*travel.Plan, error) {
	if !origin.Valid() || !destination.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range", travel.ErrInvalidInput)
	}
	if arriveBy.IsZero() {
		return nil, fmt.Errorf("%w: missing arrive-by time", travel.ErrInvalidInput)
	}

	now := p.Now().UTC()
	arriveBy = arriveBy.UTC()

	buffers := p.lookupBuffers(ctx, preferencesID, venueID)

	var weather *travel.WeatherSnapshot
	var weatherGroup conc.WaitGroup
	weatherGroup.Go(func() {
		weather = p.resolveWeather(ctx, origin, now, arriveBy)
	})

	estimatePool := pool.NewWithResults[travel.RawEstimate]()
	for _, mode := range travel.AllTravelModes() {
		estimatePool.Go(func() travel.RawEstimate {
			return p.resolveEstimate(ctx, mode, origin, destination, now)
		})
	}

	rawEstimates := estimatePool.Wait()
	weatherGroup.Wait()

	adjustedEstimates := make([]travel.AdjustedEstimate, 0, len(rawEstimates))
	for _, raw := range rawEstimates {
		adjustedEstimates = append(adjustedEstimates, Compose(raw, weather, buffers))
	}

	chosen, alternatives, err := SelectMode(now, arriveBy, adjustedEstimates)
	if err != nil {
		return nil, err
	}

	adjustedETA := time.Duration(chosen.AdjustedETASeconds) * time.Second

	leaveBy := arriveBy.Add(-adjustedETA)
	if leaveBy.Before(now) {
		leaveBy = now
	}

	expectedArrival := leaveBy.Add(adjustedETA)

	alreadyLate := expectedArrival.After(arriveBy)
	minutesLate := 0
	if alreadyLate {
		minutesLate = int(math.Ceil(expectedArrival.Sub(arriveBy).Seconds() / 60))
	}

	return &travel.Plan{
		LeaveBy:         leaveBy,
		ChosenMode:      chosen.Mode,
		ETASeconds:      chosen.AdjustedETASeconds,
		Reliability:     chosen.Reliability,
		Explain:         explainString(chosen.Explanation),
		Alternatives:    alternatives,
		AlreadyLate:     alreadyLate,
		MinutesLate:     minutesLate,
		ExpectedArrival: expectedArrival,
	}, nil
}

func (p *Planner) lookupBuffers(ctx context.Context, preferencesID string, venueID string) travel.BufferSet {
	if p.Buffers == nil {
		return travel.BufferSet{}
	}

	buffers, err := p.Buffers.GetBufferSet(ctx, preferencesID, venueID)
	if err != nil {
		// A plan with conservative zero buffers is more useful than no plan
		log.Warn().Err(err).Str("preferences", preferencesID).Msg("Buffer lookup failed, using zero buffers")
		return travel.BufferSet{}
	}

	return buffers
}

func (p *Planner) resolveEstimate(ctx context.Context, mode travel.TravelMode, origin travel.Coordinate, destination travel.Coordinate, departAt time.Time) travel.RawEstimate {
	provider := p.Providers[mode]

	request := travel.EstimateRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
		DepartAt:    departAt,
	}

	fetch := func(ctx context.Context) (travel.RawEstimate, error) {
		var raw travel.RawEstimate

		err := provider.Wrapper.Do(ctx, func(ctx context.Context) error {
			var err error
			raw, err = provider.Client.Estimate(ctx, request)
			return err
		})

		return raw, err
	}

	var raw travel.RawEstimate
	var err error

	if p.Cache != nil {
		key := request.CacheKey(p.Cache.EstimateTTL)
		raw, err = resultcache.Lookup(p.Cache, ctx, key, p.Cache.EstimateTTL, fetch)
	} else {
		raw, err = fetch(ctx)
	}

	if err != nil {
		log.Warn().Err(err).Str("mode", string(mode)).Msg("Estimator unavailable, falling back to stub")
		raw, _ = provider.Fallback.Estimate(ctx, request)
	}

	return raw
}

func (p *Planner) resolveWeather(ctx context.Context, location travel.Coordinate, windowStart time.Time, windowEnd time.Time) *travel.WeatherSnapshot {
	if windowEnd.Before(windowStart) {
		windowEnd = windowStart
	}

	fetch := func(ctx context.Context) (travel.WeatherSnapshot, error) {
		var snapshot travel.WeatherSnapshot

		err := p.Weather.Wrapper.Do(ctx, func(ctx context.Context) error {
			var err error
			snapshot, err = p.Weather.Client.Forecast(ctx, location, windowStart, windowEnd)
			return err
		})

		return snapshot, err
	}

	var snapshot travel.WeatherSnapshot
	var err error

	if p.Cache != nil {
		key := travel.WeatherCacheKey(location, windowStart, p.Cache.WeatherTTL)
		snapshot, err = resultcache.Lookup(p.Cache, ctx, key, p.Cache.WeatherTTL, fetch)
	} else {
		snapshot, err = fetch(ctx)
	}

	if err != nil {
		log.Warn().Err(err).Msg("Weather provider unavailable, falling back to stub")
		snapshot, _ = p.Weather.Fallback.Forecast(ctx, location, windowStart, windowEnd)
	}

	return &snapshot
}

func explainString(explanation []string) string {
	if len(explanation) == 0 {
		return ""
	}

	return strings.Join(explanation, ". ") + "."
}
