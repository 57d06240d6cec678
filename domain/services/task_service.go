package services

import (
	"context"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
)

type TaskService interface {
	CreateTask(ctx context.Context, userID uint, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, taskID, userID uint) (*models.Task, error)
	GetPagedUserTasks(ctx context.Context, userID uint, query dto.TaskQuery) (*dto.PagedTaskResponse, error)
	UpdateTask(ctx context.Context, taskID, userID uint, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uint) error
}
