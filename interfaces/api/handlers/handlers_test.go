package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker-api/domain/apperrors"
	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/models"
	"task-tracker-api/domain/services"
	"task-tracker-api/interfaces/api/handlers"
	"task-tracker-api/interfaces/api/middleware"
	"task-tracker-api/pkg/config"
)

const cookieName = "authentication"

type fakeUserService struct {
	users   map[uint]*models.User
	deleted []uint
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: map[uint]*models.User{
		1: {ID: 1, FirstName: "Ada", LastName: "Lovelace", Gender: models.GenderFemale, Email: "ada@example.com"},
		2: {ID: 2, FirstName: "Alan", LastName: "Turing", Gender: models.GenderMale, Email: "alan@example.com"},
	}}
}

func (f *fakeUserService) Register(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == models.NormalizeEmail(req.Email) {
			return nil, apperrors.UserAlreadyExists(req.Email)
		}
	}
	user := dto.CreateUserRequestToUser(req)
	user.ID = uint(len(f.users) + 1)
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserService) GetUser(ctx context.Context, id uint, withTasks bool) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.UserNotFound(id)
	}
	return u, nil
}

func (f *fakeUserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.UserNotFound(email)
}

func (f *fakeUserService) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.UserNotFound(id)
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	return u, nil
}

func (f *fakeUserService) DeleteUser(ctx context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.UserNotFound(id)
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserService) ListUsers(ctx context.Context, query dto.PageQuery) (*dto.PagedUserResponse, error) {
	q, _ := query.Normalize()
	users := []*models.User{f.users[1], f.users[2]}
	return dto.UsersToPagedResponse(users, q, int64(len(users))), nil
}

// fakeAuthService: token "token-<id>" ใช้ได้, "token-revoked" ถูก revoke แล้ว
type fakeAuthService struct {
	users     *fakeUserService
	loggedOut []string
}

func (f *fakeAuthService) HashPassword(password string) (string, error) { return password, nil }

func (f *fakeAuthService) ValidateUser(ctx context.Context, email, password string) (*models.User, error) {
	u, err := f.users.GetUserByEmail(ctx, email)
	if err != nil || password != "secret1" {
		return nil, apperrors.WrongCredentials()
	}
	return u, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*services.LoginResult, error) {
	u, err := f.ValidateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &services.LoginResult{User: u, Token: "token-1", MaxAge: time.Hour}, nil
}

func (f *fakeAuthService) VerifyToken(ctx context.Context, token string) (*services.Principal, error) {
	switch token {
	case "":
		return nil, apperrors.Unauthorized("Authentication token is missing")
	case "token-revoked":
		return nil, apperrors.Unauthorized("Authentication token has been revoked")
	case "token-1":
		return &services.Principal{User: f.users.users[1], TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
	case "token-2":
		return &services.Principal{User: f.users.users[2], TokenID: "jti-2", ExpiresAt: time.Now().Add(time.Hour)}, nil
	}
	return nil, apperrors.Unauthorized("Invalid authentication token")
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

type fixture struct {
	app   *fiber.App
	users *fakeUserService
	auth  *fakeAuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := newFakeUserService()
	auth := &fakeAuthService{users: users}
	h := handlers.NewHandlers(&handlers.Services{
		UserService: users,
		AuthService: auth,
		JWT:         config.JWTConfig{Secret: "test", ValidTime: 3600, CookieName: cookieName, CookieSameSite: "Lax"},
		AppName:     "test",
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	protected := middleware.Protected(auth, cookieName)
	app.Post("/auth/users/register", h.AuthHandler.Register)
	app.Post("/auth/users/login", h.AuthHandler.Login)
	app.Post("/auth/users/logout", protected, h.AuthHandler.Logout)
	app.Get("/users", protected, h.UserHandler.ListUsers)
	app.Get("/users/:id", protected, h.UserHandler.GetUser)
	app.Put("/users/:id", protected, middleware.SelfOnly("id"), h.UserHandler.UpdateUser)
	app.Delete("/users/:id", protected, middleware.SelfOnly("id"), h.UserHandler.DeleteUser)
	app.Get("/health", h.HealthHandler.Health)

	return &fixture{app: app, users: users, auth: auth}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func findCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func errorMessage(body map[string]any) string {
	info, _ := body["error"].(map[string]any)
	msg, _ := info["message"].(string)
	return msg
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/auth/users/register",
		`{"firstName":"Grace","lastName":"Hopper","gender":"female","email":"Grace@Example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Registration successful", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "grace@example.com", data["email"])
	assert.NotContains(t, data, "password")
}

func TestRegisterValidationAndDuplicate(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/auth/users/register",
		`{"firstName":"","lastName":"X","gender":"robot","email":"nope","password":"1"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", errorMessage(body))

	resp, body = f.do(t, http.MethodPost, "/auth/users/register",
		`{"firstName":"Ada","lastName":"L","gender":"female","email":"ada@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errorMessage(body), "already exists")

	resp, _ = f.do(t, http.MethodPost, "/auth/users/register", `{not json`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginSetsCookie(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/auth/users/login", `{"email":"ada@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", body["message"])

	cookie := findCookie(resp)
	require.NotNil(t, cookie)
	assert.Equal(t, "token-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)
}

func TestLoginWrongCredentials(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/auth/users/login", `{"email":"ada@example.com","password":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Wrong credentials provided", errorMessage(body))
	assert.Nil(t, findCookie(resp))
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodPost, "/auth/users/logout", "", "token-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"token-1"}, f.auth.loggedOut)

	cookie := findCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestProtectedRoutesRequireCookie(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/users/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/users/1", "", "token-revoked")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication token has been revoked", errorMessage(body))
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/users/2", "", "token-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alan@example.com", body["data"].(map[string]any)["email"])

	resp, body = f.do(t, http.MethodGet, "/users/99", "", "token-1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User with the id: 99, was not found", errorMessage(body))

	resp, _ = f.do(t, http.MethodGet, "/users/abc", "", "token-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/users?pageNumber=1&pageSize=5", "", "token-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Len(t, data["users"], 2)
	assert.EqualValues(t, 2, data["totalItems"])

	resp, _ = f.do(t, http.MethodGet, "/users?pageSize=1000", "", "token-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUserSelfOnly(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodPut, "/users/1", `{"firstName":"Augusta"}`, "token-1")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "Augusta", f.users.users[1].FirstName)

	resp, _ = f.do(t, http.MethodPut, "/users/2", `{"firstName":"Nope"}`, "token-1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Alan", f.users.users[2].FirstName)

	resp, _ = f.do(t, http.MethodPut, "/users/1", `{"gender":"robot"}`, "token-1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteSelfClearsCookie(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodDelete, "/users/2", "", "token-1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/users/1", "", "token-1")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []uint{1}, f.users.deleted)

	cookie := findCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
