package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
	"task-tracker-api/domain/ports"
	"task-tracker-api/domain/repositories"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
	tasks  *memTaskRepo
	err    error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[uint]models.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) GetByIDWithTasks(ctx context.Context, id uint) (*models.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Tasks = []models.Task{}
	if r.tasks != nil {
		for _, t := range r.tasks.snapshot() {
			if t.UserID == id {
				u.Tasks = append(u.Tasks, t)
			}
		}
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) Update(ctx context.Context, id uint, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if user.FirstName != "" {
		u.FirstName = user.FirstName
	}
	if user.LastName != "" {
		u.LastName = user.LastName
	}
	if user.Gender != "" {
		u.Gender = user.Gender
	}
	r.users[id] = u
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FirstName < all[j].FirstName })
	return window(all, offset, limit), nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memTaskRepo struct {
	mu     sync.Mutex
	nextID uint
	tasks  map[uint]models.Task
	lists  int
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[uint]models.Task{}}
}

func (r *memTaskRepo) snapshot() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out
}

func (r *memTaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	task.ID = r.nextID
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) GetByIDForUser(ctx context.Context, id, userID uint) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repositories.ErrNotFound
	}
	return &t, nil
}

func (r *memTaskRepo) filtered(filter repositories.TaskFilter) []*models.Task {
	out := []*models.Task{}
	for _, t := range r.tasks {
		if t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.IsCompleted != filter.Status {
			continue
		}
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (r *memTaskRepo) ListByUser(ctx context.Context, filter repositories.TaskFilter, offset, limit int) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	return window(r.filtered(filter), offset, limit), nil
}

func (r *memTaskRepo) CountByUser(ctx context.Context, filter repositories.TaskFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *memTaskRepo) UpdateForUser(ctx context.Context, id, userID uint, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return repositories.ErrNotFound
	}
	if task.Title != "" {
		t.Title = task.Title
	}
	if task.Description != "" {
		t.Description = task.Description
	}
	if task.IsCompleted != "" {
		t.IsCompleted = task.IsCompleted
	}
	r.tasks[id] = t
	return nil
}

func (r *memTaskRepo) DeleteForUser(ctx context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.TaskEvent
	err    error
}

func (p *recordingPublisher) PublishTaskEvent(ctx context.Context, event *ports.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *event)
	return p.err
}

type memTaskCache struct {
	mu          sync.Mutex
	pages       map[string]*dto.PagedTaskResponse
	generations map[uint]int64
	invalidated []uint
	sets        int
}

func newMemTaskCache() *memTaskCache {
	return &memTaskCache{
		pages:       map[string]*dto.PagedTaskResponse{},
		generations: map[uint]int64{},
	}
}

func cacheKey(userID uint, generation int64, q dto.TaskQuery) string {
	return fmt.Sprintf("%d:%d:%s:%d:%d", userID, generation, q.TaskStatus, q.PageNumber, q.PageSize)
}

func (c *memTaskCache) Generation(ctx context.Context, userID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID], nil
}

func (c *memTaskCache) Get(ctx context.Context, userID uint, generation int64, q dto.TaskQuery) (*dto.PagedTaskResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages[cacheKey(userID, generation, q)], nil
}

func (c *memTaskCache) Set(ctx context.Context, userID uint, generation int64, q dto.TaskQuery, page *dto.PagedTaskResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.pages[cacheKey(userID, generation, q)] = page
	return nil
}

func (c *memTaskCache) InvalidateUser(ctx context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userID)
	c.generations[userID]++
	return nil
}

type memTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{revoked: map[string]time.Duration{}}
}

func (s *memTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = ttl
	return nil
}

func (s *memTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[jti]
	return ok, nil
}

var errBoom = errors.New("boom")
