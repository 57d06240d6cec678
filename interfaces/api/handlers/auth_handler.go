package handlers

import (
	"github.com/gofiber/fiber/v2"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/services"
	"task-tracker-api/interfaces/api/middleware"
	"task-tracker-api/pkg/config"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
	jwt         config.JWTConfig
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		jwt:         jwt,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.MessageResponse(c, "Registration successful", dto.UserToUserResponse(user, false))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	utils.SetAuthCookie(c, h.jwt, result.Token, result.MaxAge)
	return utils.MessageResponse(c, "Login successful", dto.UserToUserResponse(result.User, false))
}

// Logout ลบ cookie และ revoke token (ถ้ามี token store)
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if err := h.authService.Logout(ctx, middleware.GetToken(c)); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	utils.ClearAuthCookie(c, h.jwt)
	return utils.MessageResponse(c, "Logout successful", nil)
}
