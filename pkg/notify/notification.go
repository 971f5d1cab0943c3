package notify

import (
	"fmt"

	"github.com/leavenow/leavenow/pkg/travel"
)

// buildNotification turns a routine change event into a user facing message
func buildNotification(event travel.RoutineChangeEvent) travel.Notification {
	title := "Leave earlier"
	if event.NewLeaveBy.After(event.OldLeaveBy) {
		title = "You have more time"
	}

	message := fmt.Sprintf("Leave by %s instead of %s",
		event.NewLeaveBy.Format("15:04"), event.OldLeaveBy.Format("15:04"))

	if event.Plan != nil {
		message = fmt.Sprintf("%s - %s via %s", message, event.Plan.Explain, event.Plan.ChosenMode)

		if event.Plan.AlreadyLate {
			message = fmt.Sprintf("Leave now - you are running %d minutes late via %s",
				event.Plan.MinutesLate, event.Plan.ChosenMode)
			title = "Running late"
		}
	}

	return travel.Notification{
		TargetUser: event.TargetUser,
		Type:       travel.NotificationTypePush,
		Title:      title,
		Message:    message,
	}
}
