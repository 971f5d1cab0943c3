package routines

import (
	"context"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/leavenow/leavenow/pkg/planner"
	"github.com/leavenow/leavenow/pkg/travel"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultInterval       = 3 * time.Minute
	DefaultDriftThreshold = 2 * time.Minute

	maxConcurrentReplans = 10
)

// Replanner periodically re-runs the plan orchestrator for saved routines &
// emits a change notification when a routine's leave-by time drifts beyond
// the threshold. Each routine re-plans independently - one routine's provider
// trouble never blocks the others - but a single routine never has two
// re-plans in flight at once
type Replanner struct {
	Planner  *planner.Planner
	Store    Store
	Notifier Notifier

	Interval       time.Duration
	DriftThreshold time.Duration

	Now func() time.Time

	inFlight sync.Map
	stop     chan struct{}
	stopOnce sync.Once
}

func NewReplanner(orchestrator *planner.Planner, store Store, notifier Notifier) *Replanner {
	return &Replanner{
		Planner:        orchestrator,
		Store:          store,
		Notifier:       notifier,
		Interval:       DefaultInterval,
		DriftThreshold: DefaultDriftThreshold,
		Now:            time.Now,
		stop:           make(chan struct{}),
	}
}

// Run blocks until Stop is called, re-planning on every tick
func (r *Replanner) Run() {
	log.Info().
		Str("interval", r.Interval.String()).
		Str("threshold", r.DriftThreshold.String()).
		Msg("Starting routine re-planner")

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			log.Info().Msg("Stopping routine re-planner")
			return
		case <-ticker.C:
			r.RunTick(context.Background())
		}
	}
}

func (r *Replanner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
}

// RunTick re-plans every routine active for the current window exactly once
func (r *Replanner) RunTick(ctx context.Context) {
	now := r.Now().UTC()

	activeRoutines, err := r.Store.ListActiveRoutines(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active routines")
		return
	}

	replanPool := pool.New().WithMaxGoroutines(maxConcurrentReplans)
	for _, routine := range activeRoutines {
		replanPool.Go(func() {
			r.replanRoutine(ctx, routine, now)
		})
	}
	replanPool.Wait()
}

func (r *Replanner) replanRoutine(ctx context.Context, routine *travel.Routine, now time.Time) {
	if _, loaded := r.inFlight.LoadOrStore(routine.PrimaryIdentifier, struct{}{}); loaded {
		log.Debug().Str("routine", routine.PrimaryIdentifier).Msg("Re-plan already in flight, skipping")
		return
	}
	defer r.inFlight.Delete(routine.PrimaryIdentifier)

	arriveBy, err := NextArriveBy(routine.ArriveBy, now)
	if err != nil {
		log.Error().Err(err).Str("routine", routine.PrimaryIdentifier).Msg("Failed to resolve arrive-by deadline")
		return
	}

	newPlan, err := r.Planner.BuildPlan(ctx, routine.Origin, routine.Destination, arriveBy, routine.PreferencesID, routine.VenueID)
	if err != nil {
		log.Error().Err(err).Str("routine", routine.PrimaryIdentifier).Msg("Failed to re-plan routine")
		return
	}

	if routine.LastPlan != nil {
		drift := newPlan.LeaveBy.Sub(routine.LastPlan.LeaveBy)
		if drift < 0 {
			drift = -drift
		}

		if drift > r.DriftThreshold {
			event := travel.RoutineChangeEvent{
				RoutineID:  routine.PrimaryIdentifier,
				TargetUser: routine.User,
				OldLeaveBy: routine.LastPlan.LeaveBy,
				NewLeaveBy: newPlan.LeaveBy,
				Plan:       newPlan,
			}

			if err := r.Notifier.Notify(ctx, event); err != nil {
				log.Error().Err(err).Str("routine", routine.PrimaryIdentifier).Msg("Failed to emit change notification")
			} else {
				log.Info().
					Str("routine", routine.PrimaryIdentifier).
					Time("oldLeaveBy", event.OldLeaveBy).
					Time("newLeaveBy", event.NewLeaveBy).
					Msg("Routine leave-by time changed")
			}
		}
	}

	// Detach the stored copy from the plan handed to the notifier
	var storedPlan travel.Plan
	if err := copier.CopyWithOption(&storedPlan, newPlan, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("routine", routine.PrimaryIdentifier).Msg("Failed to copy plan")
		return
	}

	if err := r.Store.SaveLastPlan(ctx, routine.PrimaryIdentifier, &storedPlan); err != nil {
		log.Error().Err(err).Str("routine", routine.PrimaryIdentifier).Msg("Failed to save last plan")
	}
}
