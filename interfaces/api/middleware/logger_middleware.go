package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"task-tracker-api/pkg/logger"
)

// path ที่ถูกเรียกถี่ (health check, prometheus scrape) log แค่ระดับ debug
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggerMiddleware structured logging สำหรับทุก request
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		upgrade := websocket.IsWebSocketUpgrade(c)

		logger.DebugContext(c.UserContext(), "Request started",
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"user_agent", c.Get("User-Agent"),
		)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// ErrorHandler ยังไม่ได้เขียน status ลง response
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		// socket อยู่ต่อหลัง handler คืนค่า, gateway log ช่วงชีวิต connection เอง
		if upgrade {
			logFunc := logger.InfoContext
			msg := "WebSocket upgraded"
			if status != fiber.StatusSwitchingProtocols {
				logFunc = logger.WarnContext
				msg = "WebSocket upgrade rejected"
			}
			logFunc(c.UserContext(), msg,
				"path", c.Path(),
				"status", status,
				"ip", c.IP(),
			)
			return err
		}

		logFunc := logger.InfoContext
		switch {
		case status >= 500:
			logFunc = logger.ErrorContext
		case status >= 400:
			logFunc = logger.WarnContext
		case quietPaths[c.Path()]:
			logFunc = logger.DebugContext
		}

		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"bytes", len(c.Response().Body()),
		}
		// user_id มากับ UserContext ที่ Protected ตั้งไว้
		logFunc(c.UserContext(), "Request completed", args...)
		return err
	}
}
