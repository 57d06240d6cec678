package dto

import (
	"time"

	"task-tracker-api/domain/models"
)

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=60"`
	Description string `json:"description" validate:"required,max=256"`
}

type UpdateTaskRequest struct {
	TaskID      uint              `json:"taskId" validate:"required,min=1"`
	Title       string            `json:"title" validate:"omitempty,max=60"`
	Description string            `json:"description" validate:"omitempty,max=256"`
	IsCompleted models.TaskStatus `json:"isCompleted" validate:"omitempty,oneof=completed pending"`
}

type TaskIDRequest struct {
	TaskID uint `json:"taskId" validate:"required,min=1"`
}

// TaskQuery ไม่ใส่ taskStatus = ทุกสถานะ
type TaskQuery struct {
	TaskStatus models.TaskStatus `json:"taskStatus" validate:"omitempty,oneof=completed pending"`
	PageQuery
}

type TaskResponse struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	IsCompleted models.TaskStatus `json:"isCompleted"`
	UserID      uint              `json:"userId"`
	Author      *UserResponse     `json:"author,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type PagedTaskResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	PageMeta
}

type DeleteTaskResponse struct {
	TaskID  uint `json:"taskId"`
	Deleted bool `json:"deleted"`
}
