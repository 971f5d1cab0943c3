package routines

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/leavenow/leavenow/pkg/redis_client"
	"github.com/leavenow/leavenow/pkg/travel"
)

// Notifier is the change notification sink for routine re-plans
type Notifier interface {
	Notify(ctx context.Context, event travel.RoutineChangeEvent) error
}

const NotificationQueueName = "notifications"

// QueueNotifier publishes change events onto the notifications queue for the
// notify consumers to deliver
type QueueNotifier struct {
	queue rmq.Queue
}

func NewQueueNotifier() (*QueueNotifier, error) {
	queue, err := redis_client.QueueConnection.OpenQueue(NotificationQueueName)
	if err != nil {
		return nil, err
	}

	return &QueueNotifier{queue: queue}, nil
}

func (n *QueueNotifier) Notify(ctx context.Context, event travel.RoutineChangeEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.queue.PublishBytes(eventJSON)
}
