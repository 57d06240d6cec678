package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker-api/pkg/logger"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf, "json", level)
	t.Cleanup(func() { logger.SetOutput(io.Discard, "json", "info") })
	return &buf
}

func findEntry(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	for dec.More() {
		var entry map[string]any
		require.NoError(t, dec.Decode(&entry))
		if entry["msg"] == msg {
			return entry
		}
	}
	return nil
}

func newLoggedApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestIDMiddleware())
	app.Use(LoggerMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/me", func(c *fiber.Ctx) error {
		c.SetUserContext(logger.ContextWithUserID(c.UserContext(), 7))
		return c.SendString("me")
	})
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrConflict })
	app.Get("/socket", func(c *fiber.Ctx) error { return fiber.ErrUpgradeRequired })
	return app
}

func TestLoggerIncludesRequestAndUserIDs(t *testing.T) {
	buf := captureLogs(t, "info")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp, err := newLoggedApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))

	entry := findEntry(t, buf, "Request completed")
	require.NotNil(t, entry)
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.EqualValues(t, 7, entry["user_id"])
	assert.EqualValues(t, 200, entry["status"])
}

func TestLoggerUsesErrorStatusBeforeErrorHandler(t *testing.T) {
	buf := captureLogs(t, "info")

	_, err := newLoggedApp().Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	entry := findEntry(t, buf, "Request completed")
	require.NotNil(t, entry)
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, http.StatusConflict, entry["status"])
}

func TestLoggerKeepsHealthChecksAtDebug(t *testing.T) {
	buf := captureLogs(t, "info")

	_, err := newLoggedApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)

	assert.Nil(t, findEntry(t, buf, "Request completed"))
}

func TestLoggerReportsRejectedWebSocketUpgrade(t *testing.T) {
	buf := captureLogs(t, "info")

	req := httptest.NewRequest(http.MethodGet, "/socket", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	_, err := newLoggedApp().Test(req)
	require.NoError(t, err)

	entry := findEntry(t, buf, "WebSocket upgrade rejected")
	require.NotNil(t, entry)
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, http.StatusUpgradeRequired, entry["status"])
	assert.Nil(t, findEntry(t, buf, "Request completed"))
}

func TestRequestIDReplacesMalformedHeader(t *testing.T) {
	app := newLoggedApp()

	for _, bad := range []string{"has space", "semi;colon", string(bytes.Repeat([]byte("a"), 65))} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, bad)
		resp, err := app.Test(req)
		require.NoError(t, err)

		got := resp.Header.Get(RequestIDHeader)
		assert.NotEqual(t, bad, got)
		assert.Len(t, got, 36)
	}
}
