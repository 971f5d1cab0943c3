package travel

import "math"

type Coordinate struct {
	Latitude  float64 `json:"latitude" groups:"basic"`
	Longitude float64 `json:"longitude" groups:"basic"`
}

func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return false
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}

	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
