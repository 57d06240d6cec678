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
)

type TaskServiceImpl struct {
	taskRepo  repositories.TaskRepository
	userRepo  repositories.UserRepository
	publisher ports.TaskEventPublisherPort
	cache     ports.TaskListCache // optional
}

func NewTaskService(taskRepo repositories.TaskRepository, userRepo repositories.UserRepository, publisher ports.TaskEventPublisherPort) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// NewTaskServiceWithCache ใช้เมื่อมี redis
func NewTaskServiceWithCache(taskRepo repositories.TaskRepository, userRepo repositories.UserRepository, publisher ports.TaskEventPublisherPort, cache ports.TaskListCache) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		publisher: publisher,
		cache:     cache,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uint, req *dto.CreateTaskRequest) (*models.Task, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "User not found for task creation", "user_id", userID)
			return nil, apperrors.UserNotFound(userID)
		}
		return nil, apperrors.ServerError(err)
	}

	task := dto.CreateTaskRequestToTask(userID, req)
	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "user_id", userID, "error", err)
		return nil, apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID, "user_id", userID)
	s.afterMutation(ctx, ports.TaskCreated, userID, task.ID)
	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID, userID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByIDForUser(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.TaskNotFound(taskID)
		}
		logger.ErrorContext(ctx, "Failed to get task", "task_id", taskID, "error", err)
		return nil, apperrors.ServerError(err)
	}
	return task, nil
}

func (s *TaskServiceImpl) GetPagedUserTasks(ctx context.Context, userID uint, query dto.TaskQuery) (*dto.PagedTaskResponse, error) {
	var offset int
	query.PageQuery, offset = query.PageQuery.Normalize()

	// generation ต้องอ่านก่อน query; ถ้ามี mutation ระหว่างนี้ หน้าที่ได้จะไม่ถูก cache
	generation, cacheable := s.cacheGeneration(ctx, userID)
	if cacheable {
		cached, err := s.cache.Get(ctx, userID, generation, query)
		if err != nil {
			logger.WarnContext(ctx, "Task cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	filter := repositories.TaskFilter{UserID: userID, Status: query.TaskStatus}

	tasks, err := s.taskRepo.ListByUser(ctx, filter, offset, query.PageSize)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get user tasks", "user_id", userID, "error", err)
		return nil, apperrors.ServerError(err)
	}

	total, err := s.taskRepo.CountByUser(ctx, filter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to count user tasks", "user_id", userID, "error", err)
		return nil, apperrors.ServerError(err)
	}

	page := dto.TasksToPagedResponse(tasks, query.PageQuery, total)

	if cacheable {
		if current, ok := s.cacheGeneration(ctx, userID); !ok || current != generation {
			logger.DebugContext(ctx, "Task list changed during read, skip cache", "user_id", userID)
			return page, nil
		}
		if err := s.cache.Set(ctx, userID, generation, query, page); err != nil {
			logger.WarnContext(ctx, "Task cache write failed", "user_id", userID, "error", err)
		}
	}
	return page, nil
}

func (s *TaskServiceImpl) cacheGeneration(ctx context.Context, userID uint) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	generation, err := s.cache.Generation(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "Task cache generation read failed", "user_id", userID, "error", err)
		return 0, false
	}
	return generation, true
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, taskID, userID uint, req *dto.UpdateTaskRequest) (*models.Task, error) {
	update := dto.UpdateTaskRequestToTask(req)
	if update.Title == "" && update.Description == "" && update.IsCompleted == "" {
		return s.GetTask(ctx, taskID, userID)
	}

	if err := s.taskRepo.UpdateForUser(ctx, taskID, userID, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Task not found for update", "task_id", taskID, "user_id", userID)
			return nil, apperrors.TaskNotFound(taskID)
		}
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, apperrors.ServerError(err)
	}

	task, err := s.GetTask(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Task updated successfully", "task_id", taskID, "user_id", userID)
	s.afterMutation(ctx, ports.TaskUpdated, userID, taskID)
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID, userID uint) error {
	if err := s.taskRepo.DeleteForUser(ctx, taskID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.TaskNotFound(taskID)
		}
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return apperrors.ServerError(err)
	}

	logger.InfoContext(ctx, "Task deleted successfully", "task_id", taskID, "user_id", userID)
	s.afterMutation(ctx, ports.TaskDeleted, userID, taskID)
	return nil
}

// afterMutation ล้าง cache ของ user แล้วแจ้ง event; ความผิดพลาดตรงนี้ไม่ทำให้ mutation fail
func (s *TaskServiceImpl) afterMutation(ctx context.Context, eventType ports.TaskEventType, userID, taskID uint) {
	if s.cache != nil {
		if err := s.cache.InvalidateUser(ctx, userID); err != nil {
			logger.WarnContext(ctx, "Task cache invalidation failed", "user_id", userID, "error", err)
		}
	}

	if s.publisher == nil {
		return
	}
	event := &ports.TaskEvent{
		Type:       eventType,
		UserID:     userID,
		TaskID:     taskID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "task_id", taskID, "type", eventType, "error", err)
	}
}
