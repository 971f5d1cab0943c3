package travel

import (
	"fmt"
	"time"
)

// WeatherSnapshot is only valid for the window it was forecast for
type WeatherSnapshot struct {
	PrecipitationExpected bool      `json:"precipitation_expected"`
	WindowStart           time.Time `json:"window_start"`
	WindowEnd             time.Time `json:"window_end"`
}

func (w WeatherSnapshot) Covers(at time.Time) bool {
	return !at.Before(w.WindowStart) && at.Before(w.WindowEnd)
}

func WeatherCacheKey(location Coordinate, at time.Time, bucket time.Duration) string {
	return fmt.Sprintf("weather/%.4f,%.4f/%d",
		location.Latitude, location.Longitude, at.Truncate(bucket).Unix())
}
