package repositories

import (
	"context"

	"task-tracker-api/domain/models"
)

// TaskFilter status ว่าง = ไม่กรอง
type TaskFilter struct {
	UserID uint
	Status models.TaskStatus
}

// TaskRepository ทุก method ที่อ่าน/แก้ task เดียว scope ด้วย owner เสมอ
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByIDForUser(ctx context.Context, id, userID uint) (*models.Task, error)
	ListByUser(ctx context.Context, filter TaskFilter, offset, limit int) ([]*models.Task, error)
	CountByUser(ctx context.Context, filter TaskFilter) (int64, error)
	UpdateForUser(ctx context.Context, id, userID uint, task *models.Task) error
	DeleteForUser(ctx context.Context, id, userID uint) error
}
