package dto

import (
	"task-tracker-api/domain/models"
)

// UserToUserResponse ไม่มี password; tasks ใส่เฉพาะเมื่อ includeTasks และโหลดมาแล้ว
func UserToUserResponse(user *models.User, includeTasks bool) *UserResponse {
	if user == nil {
		return nil
	}
	resp := &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Gender:    user.Gender,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if includeTasks && user.Tasks != nil {
		resp.Tasks = make([]TaskResponse, len(user.Tasks))
		for i := range user.Tasks {
			resp.Tasks[i] = *TaskToTaskResponse(&user.Tasks[i])
		}
	}
	return resp
}

func CreateUserRequestToUser(req *CreateUserRequest) *models.User {
	return &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Email:     models.NormalizeEmail(req.Email),
		Password:  req.Password,
	}
}

// UpdateUserRequestToUser zero fields are skipped by GORM Updates.
func UpdateUserRequestToUser(req *UpdateUserRequest) *models.User {
	return &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
	}
}

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}
	resp := &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.User != nil {
		resp.Author = UserToUserResponse(task.User, false)
	}
	return resp
}

func CreateTaskRequestToTask(userID uint, req *CreateTaskRequest) *models.Task {
	return &models.Task{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: models.TaskStatusPending,
		UserID:      userID,
	}
}

func UpdateTaskRequestToTask(req *UpdateTaskRequest) *models.Task {
	return &models.Task{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	}
}

func TasksToPagedResponse(tasks []*models.Task, q PageQuery, total int64) *PagedTaskResponse {
	resp := &PagedTaskResponse{
		Tasks:    make([]TaskResponse, 0, len(tasks)),
		PageMeta: NewPageMeta(q, total),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, *TaskToTaskResponse(t))
	}
	return resp
}

func UsersToPagedResponse(users []*models.User, q PageQuery, total int64) *PagedUserResponse {
	resp := &PagedUserResponse{
		Users:    make([]UserResponse, 0, len(users)),
		PageMeta: NewPageMeta(q, total),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, *UserToUserResponse(u, false))
	}
	return resp
}
