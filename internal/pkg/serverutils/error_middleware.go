package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/pkg/logger"
)

// ErrorHandler maps application error kinds to HTTP statuses so handlers
// can return errors raw. Anything unclassified becomes a 500 with a
// generic message.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			message = appErr.Message
			switch appErr.Kind {
			case apperr.KindValidation:
				status = fiber.StatusBadRequest
			case apperr.KindNotFound:
				status = fiber.StatusNotFound
			case apperr.KindConflict:
				status = fiber.StatusConflict
			case apperr.KindPersistence:
				status = fiber.StatusInternalServerError
			}
		} else {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
				message = fiberErr.Message
			}
		}

		if status >= 500 {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
		}

		resp := ErrorResponse(status, message)
		if appErr != nil && len(appErr.Details) > 0 {
			return ctx.Status(status).JSON(fiber.Map{
				"success": false,
				"code":    status,
				"message": message,
				"details": appErr.Details,
			})
		}
		return ctx.Status(status).JSON(resp)
	}
}
