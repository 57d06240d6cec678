package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wsgateway "task-tracker-api/interfaces/api/websocket"
)

func SetupWebSocketRoutes(api fiber.Router, gateway *wsgateway.TaskGateway, cookieName string) {
	// auth เช็คใน gateway ทุก event, upgrade แค่เก็บ cookie ไว้
	api.Use("/tasks", gateway.Upgrade(cookieName))
	api.Get("/tasks", websocket.New(gateway.Handle))
}
