package services

import (
	"context"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
)

type UserService interface {
	Register(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint, withTasks bool) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context, query dto.PageQuery) (*dto.PagedUserResponse, error)
}
