package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"task-tracker-api/domain/apperrors"
	"task-tracker-api/pkg/logger"
	"task-tracker-api/pkg/utils"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			if appErr.Kind == apperrors.KindInternal {
				logger.ErrorContext(c.UserContext(), "Unhandled error", "error", err)
			}
			return utils.AppErrorResponse(c, err)
		}

		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
			switch code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusUnauthorized:
				errCode = utils.ErrCodeUnauthorized
			case fiber.StatusForbidden:
				errCode = utils.ErrCodeForbidden
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case fiber.StatusConflict:
				errCode = utils.ErrCodeConflict
			default:
				if code < 500 {
					errCode = utils.ErrCodeBadRequest
				}
			}
		}

		if code >= 500 {
			logger.ErrorContext(c.UserContext(), "Unhandled error", "error", err)
		}

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
