package routes

import (
	"github.com/gofiber/fiber/v2"

	"task-tracker-api/interfaces/api/handlers"
	wsgateway "task-tracker-api/interfaces/api/websocket"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, gateway *wsgateway.TaskGateway) {
	// Setup health, root and metrics routes
	SetupHealthRoutes(app, h)
	SetupMetricsRoutes(app)

	// API version group
	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h)
	SetupUserRoutes(api, h)

	// tasks namespace ใช้ WebSocket อย่างเดียว
	SetupWebSocketRoutes(api, gateway, h.JWT.CookieName)
}
