package serviceimpl

import (
	"context"
	"errors"

	"task-tracker-api/domain/apperrors"
	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
	"task-tracker-api/domain/repositories"
	"task-tracker-api/domain/services"
	"task-tracker-api/pkg/logger"
)

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) services.UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	user := dto.CreateUserRequestToUser(req)

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		logger.ErrorContext(ctx, "Failed to look up email", "error", err)
		return nil, apperrors.ServerError(err)
	}
	if existing != nil {
		logger.WarnContext(ctx, "Email already exists", "email", user.Email)
		return nil, apperrors.UserAlreadyExists(user.Email)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to hash password", "error", err)
		return nil, apperrors.ServerError(err)
	}
	user.Password = hashed

	if err := s.userRepo.Create(ctx, user); err != nil {
		// ชนกันระหว่าง check กับ insert
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.UserAlreadyExists(user.Email)
		}
		logger.ErrorContext(ctx, "Failed to create user in database", "error", err)
		return nil, apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "User created successfully", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uint, withTasks bool) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	if withTasks {
		user, err = s.userRepo.GetByIDWithTasks(ctx, id)
	} else {
		user, err = s.userRepo.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.UserNotFound(id)
		}
		logger.ErrorContext(ctx, "Failed to get user", "user_id", id, "error", err)
		return nil, apperrors.ServerError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.UserNotFound(email)
		}
		return nil, apperrors.ServerError(err)
	}
	return user, nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*models.User, error) {
	if req.IsEmpty() {
		return s.GetUser(ctx, id, false)
	}

	if err := s.userRepo.Update(ctx, id, dto.UpdateUserRequestToUser(req)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "User not found for update", "user_id", id)
			return nil, apperrors.UserNotFound(id)
		}
		logger.ErrorContext(ctx, "Failed to update user", "user_id", id, "error", err)
		return nil, apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "User updated successfully", "user_id", id)
	return s.GetUser(ctx, id, false)
}

func (s *UserServiceImpl) DeleteUser(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.UserNotFound(id)
		}
		logger.ErrorContext(ctx, "Failed to delete user", "user_id", id, "error", err)
		return apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "User deleted successfully", "user_id", id)
	return nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, query dto.PageQuery) (*dto.PagedUserResponse, error) {
	query, offset := query.Normalize()

	users, err := s.userRepo.List(ctx, offset, query.PageSize)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list users", "error", err)
		return nil, apperrors.ServerError(err)
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count users", "error", err)
		return nil, apperrors.ServerError(err)
	}

	return dto.UsersToPagedResponse(users, query, total), nil
}
