package ports

import (
	"context"
	"time"

	"task-tracker-api/domain/dto"
)

// TaskListCache - cache ของ paged task list ต่อ user
// หน้าที่ cache ผูกกับ generation ของ user; InvalidateUser เลื่อน generation
// ดังนั้นหน้าที่ query มาก่อน mutation จะไม่ถูกอ่านอีก แม้ถูก Set หลัง invalidate
// Get คืน (nil, nil) เมื่อ miss
type TaskListCache interface {
	Generation(ctx context.Context, userID uint) (int64, error)
	Get(ctx context.Context, userID uint, generation int64, query dto.TaskQuery) (*dto.PagedTaskResponse, error)
	Set(ctx context.Context, userID uint, generation int64, query dto.TaskQuery, page *dto.PagedTaskResponse) error
	InvalidateUser(ctx context.Context, userID uint) error
}

// TokenStore - jti ที่ถูก revoke (logout) จนกว่า token จะหมดอายุ
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
