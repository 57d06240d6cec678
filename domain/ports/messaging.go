package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task Event Port - แจ้งว่า task ของ user เปลี่ยน (create/update/delete)
// ═══════════════════════════════════════════════════════════════════════════════

type TaskEventType string

const (
	TaskCreated TaskEventType = "created"
	TaskUpdated TaskEventType = "updated"
	TaskDeleted TaskEventType = "deleted"
)

// TaskEvent - Plain struct (ไม่มี NATS dependency)
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	UserID     uint          `json:"userId"`
	TaskID     uint          `json:"taskId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// TaskEventPublisherPort - ส่ง event หลัง mutation สำเร็จ
type TaskEventPublisherPort interface {
	PublishTaskEvent(ctx context.Context, event *TaskEvent) error
}

// TaskEventHandler - Callback function type
type TaskEventHandler func(event *TaskEvent)

// TaskEventSubscriberPort - รับ ctx เพื่อให้ cancel subscription ผ่าน context ได้
type TaskEventSubscriberPort interface {
	Subscribe(ctx context.Context, handler TaskEventHandler) error
	Unsubscribe() error
}

// TaskEventBus - implementation ส่วนใหญ่ทำทั้งสองฝั่ง
type TaskEventBus interface {
	TaskEventPublisherPort
	TaskEventSubscriberPort
}
