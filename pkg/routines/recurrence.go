package routines

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	iso8601 "github.com/senseyeio/duration"
)

// RecurrenceActive evaluates a routine's recurrence rule for a point in time.
// Rules are expressions over weekday, hour & minute, for example
// `weekday in ["Monday", "Tuesday"] && hour < 10`
func RecurrenceActive(rule string, at time.Time) (bool, error) {
	program, err := expr.Compile(rule, expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compiling recurrence rule: %w", err)
	}

	output, err := expr.Run(program, map[string]interface{}{
		"weekday": at.Weekday().String(),
		"hour":    at.Hour(),
		"minute":  at.Minute(),
	})
	if err != nil {
		return false, fmt.Errorf("evaluating recurrence rule: %w", err)
	}

	return output.(bool), nil
}

// NextArriveBy resolves a routine's "15:04" arrival time of day to the next
// concrete deadline at or after from
func NextArriveBy(arriveBy string, from time.Time) (time.Time, error) {
	timeOfDay, err := time.Parse("15:04", arriveBy)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing arrive-by time %q: %w", arriveBy, err)
	}

	deadline := time.Date(
		from.Year(), from.Month(), from.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0, from.Location(),
	)

	if deadline.Before(from) {
		nextDay, _ := iso8601.ParseISO8601("P1D")
		deadline = nextDay.Shift(deadline)
	}

	return deadline, nil
}

// ParseISODuration turns an ISO8601 duration like PT3M into a time.Duration
// relative to from
func ParseISODuration(value string, from time.Time) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, err
	}

	return parsed.Shift(from).Sub(from), nil
}
