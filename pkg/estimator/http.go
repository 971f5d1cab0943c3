package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/leavenow/leavenow/pkg/travel"
)

// HTTPEstimator fetches travel times from an OSRM compatible routing service.
// The resilience wrapper owns timeouts & retries, so every failure here maps
// straight onto the provider error classes
type HTTPEstimator struct {
	Mode     travel.TravelMode
	Endpoint string

	HTTPClient *http.Client
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

func (e *HTTPEstimator) Name() string {
	return fmt.Sprintf("routing-%s", e.Mode)
}

func (e *HTTPEstimator) profile() string {
	if e.Mode == travel.TravelModeWalk {
		return "walking"
	}

	return "driving"
}

func (e *HTTPEstimator) Estimate(ctx context.Context, request travel.EstimateRequest) (travel.RawEstimate, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=false",
		e.Endpoint, e.profile(),
		request.Origin.Longitude, request.Origin.Latitude,
		request.Destination.Longitude, request.Destination.Latitude,
	)

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return travel.RawEstimate{}, fmt.Errorf("%w: %s", travel.ErrProvider, err)
	}

	client := e.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	response, err := client.Do(httpRequest)
	if err != nil {
		if ctx.Err() != nil {
			return travel.RawEstimate{}, fmt.Errorf("%w: %s", travel.ErrUpstreamTimeout, err)
		}

		return travel.RawEstimate{}, fmt.Errorf("%w: %s", travel.ErrProvider, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return travel.RawEstimate{}, fmt.Errorf("%w: routing service returned %d", travel.ErrProvider, response.StatusCode)
	}

	var route routeResponse
	if err := json.NewDecoder(response.Body).Decode(&route); err != nil {
		return travel.RawEstimate{}, fmt.Errorf("%w: %s", travel.ErrProvider, err)
	}

	if route.Code != "Ok" || len(route.Routes) == 0 {
		return travel.RawEstimate{}, fmt.Errorf("%w: no route between origin & destination", travel.ErrProvider)
	}

	return travel.RawEstimate{
		Mode:            e.Mode,
		ETASeconds:      int(math.Ceil(route.Routes[0].Duration)),
		BaseReliability: stubBaseReliability,
	}, nil
}
