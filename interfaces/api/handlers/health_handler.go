package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"task-tracker-api/pkg/logger"
)

type HealthHandler struct {
	service string
	check   func(ctx context.Context) error
}

func NewHealthHandler(service string, check func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{service: service, check: check}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			logger.ErrorContext(ctx, "Health check failed", "error", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unavailable",
				"service": h.service,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Server is running",
		"service": h.service,
	})
}
