package travel

// BufferSet holds the fixed additive allowances for a trip.
// Zero means not applicable for that buffer
type BufferSet struct {
	PrepSeconds     int `bson:"prepseconds"`
	ParkingSeconds  int `bson:"parkingseconds"`
	SecuritySeconds int `bson:"securityseconds"`
	CabWaitSeconds  int `bson:"cabwaitseconds"`
}
