package api

import (
	"errors"

	"docchat/logger"
	"docchat/types"

	"github.com/gofiber/fiber/v2"
)

// StatusOf resolves the HTTP status an error is rendered with. Taxonomy
// kinds map input problems to 4xx and upstream failures to 502.
func StatusOf(err error) int {
	var taxErr *types.Error
	if errors.As(err, &taxErr) {
		switch taxErr.Kind {
		case types.KindSessionNotFound:
			return fiber.StatusNotFound
		case types.KindGenerationFailed:
			return fiber.StatusBadGateway
		default:
			return fiber.StatusBadRequest
		}
	}

	var valErr types.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Status
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// NewErrorHandler renders classified errors as a {detail, kind} body so
// clients branch on the kind, never on the message text.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusOf(err)

		var taxErr *types.Error
		if errors.As(err, &taxErr) {
			if status >= fiber.StatusInternalServerError {
				log.Error("api", "request failed upstream", map[string]interface{}{
					"path":   c.Path(),
					"kind":   taxErr.Kind,
					"detail": taxErr.Detail,
				})
			}
			return c.Status(status).JSON(taxErr)
		}

		var valErr types.ValidationError
		if errors.As(err, &valErr) {
			return c.Status(status).JSON(valErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(status).JSON(fiber.Map{"detail": fiberErr.Message})
		}

		log.Error("api", "unhandled error", map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
		return c.Status(status).JSON(fiber.Map{"detail": "internal server error"})
	}
}
