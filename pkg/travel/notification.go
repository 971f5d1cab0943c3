package travel

import "time"

type Notification struct {
	TargetUser string
	Type       NotificationType

	Title   string
	Message string
}

type NotificationType string

const (
	NotificationTypePush  NotificationType = "Push"
	NotificationTypeEmail NotificationType = "Email"
)

// RoutineChangeEvent is emitted when a re-plan moves a routine's leave-by time
// beyond the drift threshold
type RoutineChangeEvent struct {
	RoutineID  string
	TargetUser string

	OldLeaveBy time.Time
	NewLeaveBy time.Time

	Plan *Plan
}
