package planner

import (
	"math"
	"testing"
	"time"

	"github.com/leavenow/leavenow/pkg/travel"
	"golang.org/x/exp/slices"
)

func rainSnapshot() *travel.WeatherSnapshot {
	return &travel.WeatherSnapshot{
		PrecipitationExpected: true,
		WindowStart:           time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		WindowEnd:             time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func almostEqual(a float64, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComposeDriveInRain(t *testing.T) {
	raw := travel.RawEstimate{Mode: travel.TravelModeDrive, ETASeconds: 1500, BaseReliability: 0.95}
	buffers := travel.BufferSet{PrepSeconds: 600, ParkingSeconds: 180}

	adjusted := Compose(raw, rainSnapshot(), buffers)

	// round(1500 * 1.06) + 600 prep + 180 parking
	if adjusted.AdjustedETASeconds != 2370 {
		t.Fatalf("adjusted eta = %d, want 2370", adjusted.AdjustedETASeconds)
	}

	if !almostEqual(adjusted.Reliability, 0.95-0.04-0.03) {
		t.Fatalf("reliability = %f, want 0.88", adjusted.Reliability)
	}

	expected := []string{"Light rain (+6%)", "Includes prep (10m)", "Includes parking (3m)"}
	if !slices.Equal(adjusted.Explanation, expected) {
		t.Fatalf("explanation = %v, want %v", adjusted.Explanation, expected)
	}
}

func TestComposeTransitUnaffectedByRoadWeather(t *testing.T) {
	raw := travel.RawEstimate{Mode: travel.TravelModeTransit, ETASeconds: 1675, BaseReliability: 0.95}

	adjusted := Compose(raw, rainSnapshot(), travel.BufferSet{PrepSeconds: 600})

	if adjusted.AdjustedETASeconds != 2275 {
		t.Fatalf("adjusted eta = %d, want 2275 (no weather penalty on transit)", adjusted.AdjustedETASeconds)
	}

	// Precipitation still dings reliability even for schedule-bound modes
	if !almostEqual(adjusted.Reliability, 0.95-0.02-0.03) {
		t.Fatalf("reliability = %f, want 0.90", adjusted.Reliability)
	}

	for _, descriptor := range adjusted.Explanation {
		if descriptor == "Light rain (+6%)" {
			t.Fatalf("transit explanation should not contain a weather descriptor: %v", adjusted.Explanation)
		}
	}
}

func TestComposeCabBuffers(t *testing.T) {
	raw := travel.RawEstimate{Mode: travel.TravelModeCab, ETASeconds: 1560, BaseReliability: 0.95}
	buffers := travel.BufferSet{PrepSeconds: 300, ParkingSeconds: 240, SecuritySeconds: 90, CabWaitSeconds: 420}

	adjusted := Compose(raw, nil, buffers)

	// Parking never applies to a cab; 1560 + 300 + 90 + 420
	if adjusted.AdjustedETASeconds != 2370 {
		t.Fatalf("adjusted eta = %d, want 2370", adjusted.AdjustedETASeconds)
	}

	expected := []string{"Includes prep (5m)", "Includes security (90s)", "Includes cab wait (7m)"}
	if !slices.Equal(adjusted.Explanation, expected) {
		t.Fatalf("explanation = %v, want %v", adjusted.Explanation, expected)
	}
}

func TestComposeExplanationOrderIsStable(t *testing.T) {
	raw := travel.RawEstimate{Mode: travel.TravelModeDrive, ETASeconds: 1500, BaseReliability: 0.95}
	buffers := travel.BufferSet{PrepSeconds: 600, ParkingSeconds: 180, SecuritySeconds: 120, CabWaitSeconds: 60}

	first := Compose(raw, rainSnapshot(), buffers)

	// Weather first, then prep, parking, security. Cab wait never applies to DRIVE
	expected := []string{"Light rain (+6%)", "Includes prep (10m)", "Includes parking (3m)", "Includes security (2m)"}
	if !slices.Equal(first.Explanation, expected) {
		t.Fatalf("explanation = %v, want %v", first.Explanation, expected)
	}

	for range 5 {
		again := Compose(raw, rainSnapshot(), buffers)
		if !slices.Equal(again.Explanation, first.Explanation) {
			t.Fatalf("explanation ordering is not reproducible: %v vs %v", again.Explanation, first.Explanation)
		}
	}
}

func TestComposeClampsReliability(t *testing.T) {
	raw := travel.RawEstimate{Mode: travel.TravelModeCab, ETASeconds: 1560, BaseReliability: 0.01}

	adjusted := Compose(raw, rainSnapshot(), travel.BufferSet{})

	if adjusted.Reliability != 0 {
		t.Fatalf("reliability = %f, want clamped to 0", adjusted.Reliability)
	}
}
