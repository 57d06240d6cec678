package services

import (
	"context"
	"time"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
)

// Principal ผู้ใช้ที่ผ่านการยืนยัน token แล้ว
type Principal struct {
	User      *models.User
	TokenID   string
	ExpiresAt time.Time
}

// LoginResult token + อายุ สำหรับตั้ง cookie
type LoginResult struct {
	User   *models.User
	Token  string
	MaxAge time.Duration
}

type AuthService interface {
	HashPassword(password string) (string, error)
	ValidateUser(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*LoginResult, error)
	// VerifyToken checks signature, expiry, revocation and that the user still exists.
	VerifyToken(ctx context.Context, token string) (*Principal, error)
	Logout(ctx context.Context, token string) error
}
