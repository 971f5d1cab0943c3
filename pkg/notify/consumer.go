package notify

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/adjust/rmq/v5"
	"github.com/leavenow/leavenow/pkg/travel"
)

type NotifyBatchConsumer struct {
	pushManager *PushManager
}

func NewNotifyBatchConsumer(pushManager *PushManager) *NotifyBatchConsumer {
	return &NotifyBatchConsumer{pushManager: pushManager}
}

func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var event travel.RoutineChangeEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode routine change event")
			continue
		}

		notification := buildNotification(event)

		log.Info().
			Str("routine", event.RoutineID).
			Str("user", event.TargetUser).
			Str("message", notification.Message).
			Msg("Routine change notification")

		if c.pushManager != nil {
			if err := c.pushManager.SendPush(notification); err != nil {
				log.Error().Err(err).Str("user", notification.TargetUser).Msg("Failed to send push notification")
			}
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume from queue")
		}
	}
}
