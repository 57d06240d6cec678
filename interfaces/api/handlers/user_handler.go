package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"task-tracker-api/domain/dto"
	"task-tracker-api/domain/services"
	"task-tracker-api/pkg/config"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
	jwt         config.JWTConfig
}

func NewUserHandler(userService services.UserService, jwt config.JWTConfig) *UserHandler {
	return &UserHandler{
		userService: userService,
		jwt:         jwt,
	}
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	if err := utils.ValidateStruct(&query); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	page, err := h.userService.ListUsers(ctx, query)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, page)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseID(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(ctx, id, true)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, dto.UserToUserResponse(user, true))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseID(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	if _, err := h.userService.UpdateUser(ctx, id, &req); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.NoContentResponse(c)
}

// DeleteUser ลบตัวเองแล้ว cookie ใช้ต่อไม่ได้ จึงล้างทิ้งด้วย
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseID(c)
	if !ok {
		return utils.BadRequestResponse(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	if current, err := utils.GetUserFromContext(c); err == nil && current.ID == id {
		utils.ClearAuthCookie(c, h.jwt)
	}
	return utils.NoContentResponse(c)
}

func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
