package prefs

import (
	"context"
	"fmt"

	"github.com/leavenow/leavenow/pkg/database"
	"github.com/leavenow/leavenow/pkg/travel"
	"go.mongodb.org/mongo-driver/bson"
)

// Preferences holds a user's personal allowances
type Preferences struct {
	PrimaryIdentifier string `bson:"primaryidentifier"`

	PrepSeconds    int `bson:"prepseconds"`
	CabWaitSeconds int `bson:"cabwaitseconds"`
}

// Venue holds destination-side allowances
type Venue struct {
	PrimaryIdentifier string `bson:"primaryidentifier"`

	ParkingSeconds  int `bson:"parkingseconds"`
	SecuritySeconds int `bson:"securityseconds"`
}

// DatabaseLookup resolves buffer sets from the preferences & venues
// collections. Either identifier may be empty, contributing zero buffers
type DatabaseLookup struct{}

func (l DatabaseLookup) GetBufferSet(ctx context.Context, preferencesID string, venueID string) (travel.BufferSet, error) {
	var buffers travel.BufferSet

	if preferencesID != "" {
		preferencesCollection := database.GetCollection("preferences")

		var preferences *Preferences
		err := preferencesCollection.FindOne(ctx, bson.M{"primaryidentifier": preferencesID}).Decode(&preferences)
		if err != nil {
			return travel.BufferSet{}, fmt.Errorf("preferences lookup %s: %w", preferencesID, err)
		}

		buffers.PrepSeconds = preferences.PrepSeconds
		buffers.CabWaitSeconds = preferences.CabWaitSeconds
	}

	if venueID != "" {
		venuesCollection := database.GetCollection("venues")

		var venue *Venue
		err := venuesCollection.FindOne(ctx, bson.M{"primaryidentifier": venueID}).Decode(&venue)
		if err != nil {
			return travel.BufferSet{}, fmt.Errorf("venue lookup %s: %w", venueID, err)
		}

		buffers.ParkingSeconds = venue.ParkingSeconds
		buffers.SecuritySeconds = venue.SecuritySeconds
	}

	return buffers, nil
}
