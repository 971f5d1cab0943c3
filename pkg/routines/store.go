package routines

import (
	"context"
	"time"

	"github.com/leavenow/leavenow/pkg/database"
	"github.com/leavenow/leavenow/pkg/travel"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

// Store is the persistence contract the re-planner depends on
type Store interface {
	ListActiveRoutines(ctx context.Context, at time.Time) ([]*travel.Routine, error)
	SaveLastPlan(ctx context.Context, routineID string, plan *travel.Plan) error
}

type DatabaseStore struct{}

func (s DatabaseStore) ListActiveRoutines(ctx context.Context, at time.Time) ([]*travel.Routine, error) {
	routinesCollection := database.GetCollection("routines")

	cursor, err := routinesCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activeRoutines []*travel.Routine

	for cursor.Next(ctx) {
		var routine *travel.Routine
		if err := cursor.Decode(&routine); err != nil {
			log.Error().Err(err).Msg("Failed to decode routine")
			continue
		}

		active, err := RecurrenceActive(routine.Recurrence, at)
		if err != nil {
			log.Error().
				Err(err).
				Str("routine", routine.PrimaryIdentifier).
				Msg("Failed to evaluate recurrence rule")
			continue
		}

		if active {
			activeRoutines = append(activeRoutines, routine)
		}
	}

	return activeRoutines, cursor.Err()
}

func (s DatabaseStore) SaveLastPlan(ctx context.Context, routineID string, plan *travel.Plan) error {
	routinesCollection := database.GetCollection("routines")

	_, err := routinesCollection.UpdateOne(ctx,
		bson.M{"primaryidentifier": routineID},
		bson.M{"$set": bson.M{"lastplan": plan}},
	)

	return err
}
