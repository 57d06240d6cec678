package messaging

import (
	"context"
	"fmt"

	"task-tracker-api/domain/ports"
	natspkg "task-tracker-api/infrastructure/nats"
	"task-tracker-api/pkg/logger"
)

// NATSTaskEventBus implements TaskEventBus using NATS Pub/Sub
// instance ที่ publish ก็ได้รับ event ของตัวเองผ่าน subscription เช่นกัน
type NATSTaskEventBus struct {
	publisher  *natspkg.Publisher
	subscriber *natspkg.Subscriber
}

func NewNATSTaskEventBus(publisher *natspkg.Publisher, subscriber *natspkg.Subscriber) ports.TaskEventBus {
	return &NATSTaskEventBus{
		publisher:  publisher,
		subscriber: subscriber,
	}
}

func (b *NATSTaskEventBus) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	return b.publisher.PublishTaskEvent(toMessage(event))
}

func (b *NATSTaskEventBus) Subscribe(ctx context.Context, handler ports.TaskEventHandler) error {
	b.subscriber.OnTaskEvent(func(msg *natspkg.TaskEventMessage) {
		if msg == nil || msg.UserID == 0 {
			logger.Warn("Received task event without user_id")
			return
		}
		handler(fromMessage(msg))
	})

	if !b.subscriber.IsRunning() {
		return b.subscriber.Start()
	}
	return nil
}

func (b *NATSTaskEventBus) Unsubscribe() error {
	return b.subscriber.Stop()
}

func toMessage(event *ports.TaskEvent) *natspkg.TaskEventMessage {
	return &natspkg.TaskEventMessage{
		Type:       string(event.Type),
		UserID:     event.UserID,
		TaskID:     event.TaskID,
		OccurredAt: event.OccurredAt,
	}
}

func fromMessage(msg *natspkg.TaskEventMessage) *ports.TaskEvent {
	return &ports.TaskEvent{
		Type:       ports.TaskEventType(msg.Type),
		UserID:     msg.UserID,
		TaskID:     msg.TaskID,
		OccurredAt: msg.OccurredAt,
	}
}
