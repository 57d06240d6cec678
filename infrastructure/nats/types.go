package nats

import (
	"fmt"
	"time"
)

// Pub/Sub subject prefix: tasks.events.{user_id}
const SubjectTaskEvents = "tasks.events"

// TaskEventSubject subject ของ user หนึ่งคน
func TaskEventSubject(userID uint) string {
	return fmt.Sprintf("%s.%d", SubjectTaskEvents, userID)
}

// ═══════════════════════════════════════════════════════════════════════════════
// TaskEventMessage - wire format ระหว่าง API instances
// ═══════════════════════════════════════════════════════════════════════════════
type TaskEventMessage struct {
	Type       string    `json:"type"`
	UserID     uint      `json:"user_id"`
	TaskID     uint      `json:"task_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
