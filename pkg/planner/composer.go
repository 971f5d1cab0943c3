package planner

import (
	"fmt"
	"math"

	"github.com/leavenow/leavenow/pkg/travel"
)

const (
	weatherPenaltyRatio         = 0.06
	precipitationReliabilityHit = 0.03
)

// Compose turns a raw ETA plus weather & buffers into an adjusted estimate.
// Pure function - identical inputs always produce an identical result,
// including the order of the explanation descriptors
func Compose(raw travel.RawEstimate, weather *travel.WeatherSnapshot, buffers travel.BufferSet) travel.AdjustedEstimate {
	var explanation []string

	precipitation := weather != nil && weather.PrecipitationExpected

	adjustedETA := float64(raw.ETASeconds)
	if precipitation && raw.Mode.RoadBound() {
		adjustedETA *= 1 + weatherPenaltyRatio
		explanation = append(explanation, fmt.Sprintf("Light rain (+%d%%)", int(weatherPenaltyRatio*100)))
	}

	adjustedETASeconds := int(math.Round(adjustedETA))

	if buffers.PrepSeconds > 0 {
		adjustedETASeconds += buffers.PrepSeconds
		explanation = append(explanation, fmt.Sprintf("Includes prep (%s)", formatBuffer(buffers.PrepSeconds)))
	}

	if raw.Mode == travel.TravelModeDrive && buffers.ParkingSeconds > 0 {
		adjustedETASeconds += buffers.ParkingSeconds
		explanation = append(explanation, fmt.Sprintf("Includes parking (%s)", formatBuffer(buffers.ParkingSeconds)))
	}

	if buffers.SecuritySeconds > 0 {
		adjustedETASeconds += buffers.SecuritySeconds
		explanation = append(explanation, fmt.Sprintf("Includes security (%s)", formatBuffer(buffers.SecuritySeconds)))
	}

	if raw.Mode == travel.TravelModeCab && buffers.CabWaitSeconds > 0 {
		adjustedETASeconds += buffers.CabWaitSeconds
		explanation = append(explanation, fmt.Sprintf("Includes cab wait (%s)", formatBuffer(buffers.CabWaitSeconds)))
	}

	reliability := raw.BaseReliability - raw.Mode.VariancePenalty()
	if precipitation {
		reliability -= precipitationReliabilityHit
	}

	return travel.AdjustedEstimate{
		Mode:               raw.Mode,
		AdjustedETASeconds: adjustedETASeconds,
		Reliability:        clamp(reliability, 0, 1),
		Explanation:        explanation,
	}
}

func formatBuffer(seconds int) string {
	if seconds%60 == 0 {
		return fmt.Sprintf("%dm", seconds/60)
	}

	return fmt.Sprintf("%ds", seconds)
}

func clamp(value float64, low float64, high float64) float64 {
	return math.Min(math.Max(value, low), high)
}
