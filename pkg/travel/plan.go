package travel

import "time"

// AdjustedEstimate is a RawEstimate after weather penalty & buffer arithmetic.
// Explanation lists the applied penalties in a stable order - weather first,
// then prep, parking, security, cab wait
type AdjustedEstimate struct {
	Mode               TravelMode `json:"mode" groups:"basic"`
	AdjustedETASeconds int        `json:"etaSeconds" groups:"basic"`
	Reliability        float64    `json:"reliability" groups:"basic"`
	Explanation        []string   `json:"explanation,omitempty" groups:"detailed"`
}

// Plan is the outcome of one orchestration call. It is never mutated after
// construction - a new request produces a new Plan
type Plan struct {
	LeaveBy     time.Time  `json:"leaveBy" groups:"basic"`
	ChosenMode  TravelMode `json:"chosenMode" groups:"basic"`
	ETASeconds  int        `json:"etaSeconds" groups:"basic"`
	Reliability float64    `json:"reliability" groups:"basic"`
	Explain     string     `json:"explain" groups:"basic"`

	Alternatives []AdjustedEstimate `json:"alternatives" groups:"basic"`

	AlreadyLate     bool      `json:"alreadyLate" groups:"basic"`
	MinutesLate     int       `json:"minutesLate" groups:"basic"`
	ExpectedArrival time.Time `json:"expectedArrival" groups:"basic"`
}
