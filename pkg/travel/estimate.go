package travel

import (
	"fmt"
	"time"
)

// EstimateRequest identifies one estimator call & forms the basis of its cache key
type EstimateRequest struct {
	Origin      Coordinate
	Destination Coordinate
	Mode        TravelMode
	DepartAt    time.Time
}

// CacheKey buckets the departure time so concurrent requests within the same
// bucket share a single upstream call. Coordinates are rounded to ~11m precision
func (r EstimateRequest) CacheKey(bucket time.Duration) string {
	return fmt.Sprintf("estimate/%s/%.4f,%.4f/%.4f,%.4f/%d",
		r.Mode,
		r.Origin.Latitude, r.Origin.Longitude,
		r.Destination.Latitude, r.Destination.Longitude,
		r.DepartAt.Truncate(bucket).Unix(),
	)
}

type RawEstimate struct {
	Mode            TravelMode `json:"mode"`
	ETASeconds      int        `json:"eta_seconds"`
	BaseReliability float64    `json:"base_reliability"`
}
