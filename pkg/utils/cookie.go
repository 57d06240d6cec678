package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"task-tracker-api/pkg/config"
)

// SetAuthCookie HTTP-only cookie อายุเท่ากับ token
func SetAuthCookie(c *fiber.Ctx, cfg config.JWTConfig, token string, maxAge time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}

func ClearAuthCookie(c *fiber.Ctx, cfg config.JWTConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}
