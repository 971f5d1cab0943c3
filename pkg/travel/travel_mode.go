package travel

import "fmt"

type TravelMode string

const (
	TravelModeDrive   TravelMode = "DRIVE"
	TravelModeTransit TravelMode = "TRANSIT"
	TravelModeWalk    TravelMode = "WALK"
	TravelModeCab     TravelMode = "CAB"
)

// AllTravelModes is a closed set - adding a mode requires adding an estimator for it
func AllTravelModes() []TravelMode {
	return []TravelMode{TravelModeDrive, TravelModeTransit, TravelModeWalk, TravelModeCab}
}

func ParseTravelMode(value string) (TravelMode, error) {
	switch value {
	case "DRIVE":
		return TravelModeDrive, nil
	case "TRANSIT":
		return TravelModeTransit, nil
	case "WALK":
		return TravelModeWalk, nil
	case "CAB":
		return TravelModeCab, nil
	default:
		return "", fmt.Errorf("%w: unknown travel mode %q", ErrInvalidInput, value)
	}
}

// Fixed per-mode reliability penalties reflecting schedule adherence differences.
// Schedule-bound TRANSIT and WALK carry less variance than road traffic dependent DRIVE/CAB
func (mode TravelMode) VariancePenalty() float64 {
	switch mode {
	case TravelModeWalk:
		return 0.01
	case TravelModeTransit:
		return 0.02
	case TravelModeDrive:
		return 0.04
	case TravelModeCab:
		return 0.05
	default:
		return 0
	}
}

// Deterministic tie break ordering between modes with identical scores
func (mode TravelMode) Priority() int {
	switch mode {
	case TravelModeDrive:
		return 0
	case TravelModeTransit:
		return 1
	case TravelModeCab:
		return 2
	case TravelModeWalk:
		return 3
	default:
		return 4
	}
}

// RoadBound reports whether the mode is affected by road weather.
// TRANSIT absorbs road slowdowns into its schedule in this model
func (mode TravelMode) RoadBound() bool {
	return mode == TravelModeDrive || mode == TravelModeCab || mode == TravelModeWalk
}
