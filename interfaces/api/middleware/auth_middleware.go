package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"task-tracker-api/domain/services"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/utils"
)

const localsToken = "token"

// Protected ตรวจ JWT จาก auth cookie แล้วแนบ user ไว้ใน Locals("user")
func Protected(authService services.AuthService, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cookieName)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Authentication token is missing")
		}

		principal, err := authService.VerifyToken(c.UserContext(), token)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			return utils.AppErrorResponse(c, err)
		}

		c.Locals("user", &utils.UserContext{
			ID:        principal.User.ID,
			Email:     principal.User.Email,
			TokenID:   principal.TokenID,
			ExpiresAt: principal.ExpiresAt,
		})
		c.Locals(localsToken, token)
		c.SetUserContext(logger.ContextWithUserID(c.UserContext(), principal.User.ID))

		return c.Next()
	}
}

// SelfOnly ให้แก้/ลบได้เฉพาะ resource ของตัวเอง (:param = user id)
func SelfOnly(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		id, err := strconv.ParseUint(c.Params(param), 10, 64)
		if err != nil || id == 0 {
			return utils.BadRequestResponse(c, "Invalid user ID")
		}

		if uint(id) != user.ID {
			return utils.ForbiddenResponse(c, "You can only modify your own account")
		}
		return c.Next()
	}
}

// GetToken คืน raw token ที่ Protected เก็บไว้
func GetToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}
