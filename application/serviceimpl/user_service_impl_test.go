package serviceimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker-api/domain/apperrors"
	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
)

func registerReq(email string) *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Gender:    models.GenderFemale,
		Email:     email,
		Password:  "secret123",
	}
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), registerReq("Ada@Example.com"))
	require.NoError(t, err)

	assert.Equal(t, uint(1), user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.Password)
	assert.True(t, checkPassword(user.Password, "secret123"))
}

func TestRegisterRejectsDuplicateEmailAnyCase(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("ADA@example.com"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
	assert.Equal(t, "User with the id: ada@example.com, already exists", apperrors.PublicMessage(err))
}

func TestRegisterRepositoryFailureIsServerError(t *testing.T) {
	repo := newMemUserRepo()
	repo.err = errBoom
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), registerReq("a@b.co"))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.ErrorIs(t, err, errBoom)
}

func TestGetUserNotFound(t *testing.T) {
	svc := NewUserService(newMemUserRepo())

	_, err := svc.GetUser(context.Background(), 42, true)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, "User with the id: 42, was not found", apperrors.PublicMessage(err))
}

func TestGetUserWithTasks(t *testing.T) {
	users := newMemUserRepo()
	tasks := newMemTaskRepo()
	users.tasks = tasks
	svc := NewUserService(users)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("a@b.co"))
	require.NoError(t, err)
	require.NoError(t, tasks.Create(ctx, &models.Task{Title: "x", UserID: user.ID}))

	got, err := svc.GetUser(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Len(t, got.Tasks, 1)
}

func TestUpdateUserPartial(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("a@b.co"))
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, user.ID, &dto.UpdateUserRequest{LastName: "Byron"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Byron", updated.LastName)

	_, err = svc.UpdateUser(ctx, 99, &dto.UpdateUserRequest{LastName: "x"})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = svc.UpdateUser(ctx, 99, &dto.UpdateUserRequest{})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteUser(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("a@b.co"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(svc.DeleteUser(ctx, user.ID)))
}

func TestListUsersPaged(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	for _, name := range []string{"Cleo", "Abe", "Bea"} {
		req := registerReq(name + "@b.co")
		req.FirstName = name
		_, err := svc.Register(ctx, req)
		require.NoError(t, err)
	}

	page, err := svc.ListUsers(ctx, dto.PageQuery{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "Abe", page.Users[0].FirstName)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}
