package handlers

import (
	"context"

	"task-tracker-api/domain/services"
	"task-tracker-api/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService services.UserService
	AuthService services.AuthService
	TaskService services.TaskService
	JWT         config.JWTConfig
	AppName     string
	// HealthCheck ping dependencies (DB, redis); nil = ไม่เช็ค
	HealthCheck func(ctx context.Context) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	HealthHandler *HealthHandler

	// ใช้โดย middleware ใน routes
	AuthService services.AuthService
	JWT         config.JWTConfig
}

func NewHandlers(s *Services) *Handlers {
	return &Handlers{
		AuthHandler:   NewAuthHandler(s.UserService, s.AuthService, s.JWT),
		UserHandler:   NewUserHandler(s.UserService, s.JWT),
		HealthHandler: NewHealthHandler(s.AppName, s.HealthCheck),
		AuthService:   s.AuthService,
		JWT:           s.JWT,
	}
}
