package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/ports"
)

// TaskCache cache หน้า task list ต่อ user
// generation: tasks:user:{id}:gen
// page:       tasks:user:{id}:v{gen}:status:{status|all}:page:{n}:size:{m}
type TaskCache struct {
	client *Client
	ttl    time.Duration
}

func NewTaskCache(client *Client, ttl time.Duration) ports.TaskListCache {
	return &TaskCache{client: client, ttl: ttl}
}

func generationKey(userID uint) string {
	return fmt.Sprintf("tasks:user:%d:gen", userID)
}

func taskListKey(userID uint, generation int64, q dto.TaskQuery) string {
	status := string(q.TaskStatus)
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("tasks:user:%d:v%d:status:%s:page:%d:size:%d", userID, generation, status, q.PageNumber, q.PageSize)
}

// Generation ยังไม่เคย invalidate = 0
func (c *TaskCache) Generation(ctx context.Context, userID uint) (int64, error) {
	raw, err := c.client.Get(ctx, generationKey(userID))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *TaskCache) Get(ctx context.Context, userID uint, generation int64, query dto.TaskQuery) (*dto.PagedTaskResponse, error) {
	var page dto.PagedTaskResponse
	if err := c.client.GetJSON(ctx, taskListKey(userID, generation, query), &page); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &page, nil
}

func (c *TaskCache) Set(ctx context.Context, userID uint, generation int64, query dto.TaskQuery, page *dto.PagedTaskResponse) error {
	return c.client.SetJSON(ctx, taskListKey(userID, generation, query), page, c.ttl)
}

// InvalidateUser เลื่อน generation ก่อน แล้วค่อยลบหน้าเก่าทิ้ง (หน้าเก่าที่ลบไม่ทันจะหมดอายุตาม ttl)
func (c *TaskCache) InvalidateUser(ctx context.Context, userID uint) error {
	if _, err := c.client.Incr(ctx, generationKey(userID)); err != nil {
		return err
	}
	_, err := c.client.ScanAndDelete(ctx, fmt.Sprintf("tasks:user:%d:v*", userID))
	return err
}
