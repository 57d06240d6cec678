package postgres

import (
	"context"

	"gorm.io/gorm"

	"task-tracker-api/domain/models"
	"task-tracker-api/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepositoryImpl) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) scoped(ctx context.Context, filter repositories.TaskFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", filter.UserID)
	if filter.Status != "" {
		q = q.Where("is_completed = ?", filter.Status)
	}
	return q
}

func (r *TaskRepositoryImpl) ListByUser(ctx context.Context, filter repositories.TaskFilter, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.scoped(ctx, filter).
		Order("title ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	return tasks, translateError(err)
}

// CountByUser ใช้ filter เดียวกับ ListByUser
func (r *TaskRepositoryImpl) CountByUser(ctx context.Context, filter repositories.TaskFilter) (int64, error) {
	var count int64
	err := r.scoped(ctx, filter).Count(&count).Error
	return count, translateError(err)
}

func (r *TaskRepositoryImpl) UpdateForUser(ctx context.Context, id, userID uint, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(task)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) DeleteForUser(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Task{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
