package messaging

import (
	"context"
	"errors"
	"sync"

	"task-tracker-api/domain/ports"
	"task-tracker-api/pkg/logger"
)

var (
	ErrBusClosed = errors.New("task event bus closed")
	ErrBusFull   = errors.New("task event bus buffer full")
)

// LocalTaskEventBus in-process bus ใช้เมื่อไม่มี NATS (instance เดียว)
// handler ถูกเรียกจาก goroutine เดียว ตามลำดับที่ publish
type LocalTaskEventBus struct {
	mu       sync.RWMutex
	handlers []ports.TaskEventHandler
	closed   bool

	events chan ports.TaskEvent
	done   chan struct{}
}

func NewLocalTaskEventBus(buffer int) *LocalTaskEventBus {
	if buffer <= 0 {
		buffer = 256
	}
	b := &LocalTaskEventBus{
		events: make(chan ports.TaskEvent, buffer),
		done:   make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *LocalTaskEventBus) run() {
	defer close(b.done)
	for event := range b.events {
		b.mu.RLock()
		handlers := b.handlers
		b.mu.RUnlock()

		for _, h := range handlers {
			b.deliver(h, event)
		}
	}
}

func (b *LocalTaskEventBus) deliver(h ports.TaskEventHandler, event ports.TaskEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task event handler panicked", "error", r)
		}
	}()
	h(&event)
}

// PublishTaskEvent ไม่ block; buffer เต็มคืน ErrBusFull
func (b *LocalTaskEventBus) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.events <- *event:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *LocalTaskEventBus) Subscribe(ctx context.Context, handler ports.TaskEventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
	return nil
}

func (b *LocalTaskEventBus) Unsubscribe() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = nil
	return nil
}

// Close drains queued events then stops the worker.
func (b *LocalTaskEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	<-b.done
	return nil
}
