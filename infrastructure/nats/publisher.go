package nats

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher ส่ง task events แบบ fire-and-forget
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) PublishTaskEvent(msg *TaskEventMessage) error {
	if msg == nil {
		return errors.New("task event cannot be nil")
	}
	if msg.UserID == 0 {
		return errors.New("user_id is required")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}
	return p.conn.Publish(TaskEventSubject(msg.UserID), data)
}
