package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wsinfra "task-tracker-api/infrastructure/websocket"
	"task-tracker-api/interfaces/api/handlers"
	"task-tracker-api/interfaces/api/middleware"
	wsgateway "task-tracker-api/interfaces/api/websocket"
	"task-tracker-api/pkg/config"
)

func newApp(healthErr error) *fiber.App {
	h := handlers.NewHandlers(&handlers.Services{
		JWT:     config.JWTConfig{CookieName: "authentication", ValidTime: 60},
		AppName: "test",
		HealthCheck: func(ctx context.Context) error {
			return healthErr
		},
	})
	gateway := wsgateway.NewTaskGateway(wsinfra.NewHub(), nil, nil, config.WebSocketConfig{})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.MetricsMiddleware())
	SetupRoutes(app, h, gateway)
	return app
}

func TestHealthRoutes(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = newApp(errors.New("db down")).Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsRoute(t *testing.T) {
	app := newApp(nil)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "task_tracker_http_requests_total")
}

func TestTasksNamespaceRequiresUpgrade(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestProtectedUserRoutes(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
