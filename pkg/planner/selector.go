package planner

import (
	"math"
	"time"

	"github.com/leavenow/leavenow/pkg/travel"
	"golang.org/x/exp/slices"
)

// Weight of the normalized ETA penalty in the composite score. Keeps
// reliability dominant between near-tied ETAs while letting a large ETA gap
// override a small reliability edge
const etaPenaltyWeight = 0.25

// CompositeScore scores an estimate relative to the fastest mode's ETA
func CompositeScore(estimate travel.AdjustedEstimate, fastestETASeconds int) float64 {
	if fastestETASeconds <= 0 {
		return estimate.Reliability
	}

	etaGapRatio := float64(estimate.AdjustedETASeconds-fastestETASeconds) / float64(fastestETASeconds)

	return estimate.Reliability - etaPenaltyWeight*math.Min(etaGapRatio, 1)
}

// SelectMode picks the best mode & orders the rest as alternatives.
// Feasible modes (leaving now still arrives on time) always rank above
// infeasible ones. Ties break by lower adjusted ETA, then the fixed priority
// order DRIVE > TRANSIT > CAB > WALK. When no mode is feasible the best
// scoring mode is still chosen - the caller marks the plan as already late
func SelectMode(now time.Time, arriveBy time.Time, estimates []travel.AdjustedEstimate) (travel.AdjustedEstimate, []travel.AdjustedEstimate, error) {
	if len(estimates) == 0 {
		return travel.AdjustedEstimate{}, nil, travel.ErrNoViableMode
	}

	fastestETASeconds := estimates[0].AdjustedETASeconds
	for _, estimate := range estimates[1:] {
		if estimate.AdjustedETASeconds < fastestETASeconds {
			fastestETASeconds = estimate.AdjustedETASeconds
		}
	}

	feasible := func(estimate travel.AdjustedEstimate) bool {
		leaveBy := arriveBy.Add(-time.Duration(estimate.AdjustedETASeconds) * time.Second)
		return !leaveBy.Before(now)
	}

	compareScore := func(a travel.AdjustedEstimate, b travel.AdjustedEstimate) int {
		scoreA := CompositeScore(a, fastestETASeconds)
		scoreB := CompositeScore(b, fastestETASeconds)

		switch {
		case scoreA > scoreB:
			return -1
		case scoreA < scoreB:
			return 1
		}

		if a.AdjustedETASeconds != b.AdjustedETASeconds {
			return a.AdjustedETASeconds - b.AdjustedETASeconds
		}

		return a.Mode.Priority() - b.Mode.Priority()
	}

	ranked := slices.Clone(estimates)
	slices.SortStableFunc(ranked, func(a travel.AdjustedEstimate, b travel.AdjustedEstimate) int {
		if feasible(a) != feasible(b) {
			if feasible(a) {
				return -1
			}
			return 1
		}

		return compareScore(a, b)
	})

	chosen := ranked[0]

	// Alternatives are ordered purely by composite score, regardless of
	// feasibility
	alternatives := ranked[1:]
	slices.SortStableFunc(alternatives, compareScore)

	return chosen, alternatives, nil
}
