package travel

// Routine is a saved recurring trip subject to periodic re-planning.
// Recurrence is an expression over {weekday, hour, minute} deciding whether the
// routine is active for the current window. ArriveBy is the target arrival
// time of day in 24h "15:04" form
type Routine struct {
	PrimaryIdentifier string `bson:"primaryidentifier"`
	User              string `bson:"user"`

	Origin      Coordinate `bson:"origin"`
	Destination Coordinate `bson:"destination"`

	Recurrence string `bson:"recurrence"`
	ArriveBy   string `bson:"arriveby"`

	PreferencesID string `bson:"preferencesid"`
	VenueID       string `bson:"venueid"`

	LastPlan *Plan `bson:"lastplan"`
}
