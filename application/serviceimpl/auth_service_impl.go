package serviceimpl

import (
	"context"
	"errors"
	"time"

	"task-tracker-api/domain/apperrors"
	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
	"task-tracker-api/domain/ports"
	"task-tracker-api/domain/repositories"
	"task-tracker-api/domain/services"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/utils"
)

type AuthServiceImpl struct {
	userRepo   repositories.UserRepository
	tokenStore ports.TokenStore // nil = ไม่มี revoke (ไม่มี redis)
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(userRepo repositories.UserRepository, tokenStore ports.TokenStore, jwtSecret string, tokenTTL time.Duration) services.AuthService {
	return &AuthServiceImpl{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

func (s *AuthServiceImpl) HashPassword(password string) (string, error) {
	return hashPassword(password)
}

// ValidateUser อีเมลไม่มีในระบบกับรหัสผิดให้ error เดียวกัน
func (s *AuthServiceImpl) ValidateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Login failed - email not found", "email", email)
			return nil, apperrors.WrongCredentials()
		}
		logger.ErrorContext(ctx, "Failed to look up user for login", "error", err)
		return nil, apperrors.ServerError(err)
	}

	if !checkPassword(user.Password, password) {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return nil, apperrors.WrongCredentials()
	}
	return user, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*services.LoginResult, error) {
	user, err := s.ValidateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, _, err := utils.GenerateToken(user.ID, user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return nil, apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "User logged in successfully", "user_id", user.ID)
	return &services.LoginResult{User: user, Token: token, MaxAge: s.tokenTTL}, nil
}

func (s *AuthServiceImpl) VerifyToken(ctx context.Context, token string) (*services.Principal, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrMissingToken):
			return nil, apperrors.Unauthorized("Authentication token is missing")
		case errors.Is(err, utils.ErrExpiredToken):
			return nil, apperrors.Unauthorized("Authentication token has expired")
		default:
			return nil, apperrors.Unauthorized("Invalid authentication token")
		}
	}

	if s.tokenStore != nil {
		revoked, err := s.tokenStore.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			// fail closed
			logger.ErrorContext(ctx, "Failed to check token revocation", "error", err)
			return nil, apperrors.ServerError(err)
		}
		if revoked {
			return nil, apperrors.Unauthorized("Authentication token has been revoked")
		}
	}

	user, err := s.userRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid authentication token")
		}
		return nil, apperrors.ServerError(err)
	}

	return &services.Principal{
		User:      user,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Logout revokes the token id until it would have expired anyway.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if s.tokenStore == nil {
		return nil
	}

	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		// หมดอายุ/ไม่ถูกต้องอยู่แล้ว ไม่ต้อง revoke
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.tokenStore.Revoke(ctx, claims.TokenID, ttl); err != nil {
		logger.ErrorContext(ctx, "Failed to revoke token", "user_id", claims.ID, "error", err)
		return apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "Token revoked", "user_id", claims.ID)
	return nil
}
