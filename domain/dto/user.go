package dto

import (
	"time"

	"task-tracker-api/domain/models"
)

type CreateUserRequest struct {
	FirstName string        `json:"firstName" validate:"required,max=255"`
	LastName  string        `json:"lastName" validate:"required,max=255"`
	Gender    models.Gender `json:"gender" validate:"required,oneof=male female other"`
	Email     string        `json:"email" validate:"required,email,max=60"`
	Password  string        `json:"password" validate:"required,min=6,max=72"`
}

// UpdateUserRequest ทุก field optional, email/password แก้ผ่าน endpoint นี้ไม่ได้
type UpdateUserRequest struct {
	FirstName string        `json:"firstName" validate:"omitempty,max=255"`
	LastName  string        `json:"lastName" validate:"omitempty,max=255"`
	Gender    models.Gender `json:"gender" validate:"omitempty,oneof=male female other"`
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.FirstName == "" && r.LastName == "" && r.Gender == ""
}

type UserResponse struct {
	ID        uint           `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Gender    models.Gender  `json:"gender"`
	Email     string         `json:"email"`
	Tasks     []TaskResponse `json:"tasks,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type PagedUserResponse struct {
	Users []UserResponse `json:"users"`
	PageMeta
}
