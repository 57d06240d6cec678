package routes

import (
	"github.com/gofiber/fiber/v2"

	"task-tracker-api/interfaces/api/handlers"
	"task-tracker-api/interfaces/api/middleware"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers) {
	users := api.Group("/users")
	users.Post("/", h.AuthHandler.Register)

	protected := middleware.Protected(h.AuthService, h.JWT.CookieName)
	users.Get("/", protected, h.UserHandler.ListUsers)
	users.Get("/:id", protected, h.UserHandler.GetUser)
	users.Put("/:id", protected, middleware.SelfOnly("id"), h.UserHandler.UpdateUser)
	users.Delete("/:id", protected, middleware.SelfOnly("id"), h.UserHandler.DeleteUser)
}
