package middleware

import (
	"time"

	"docchat/app/api"
	"docchat/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger writes one line per request with the resolved status and
// elapsed time. Errors are resolved to the status the error handler will
// render, since logging runs before it.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = api.StatusOf(err)
		}

		log.Info("http", "request completed", map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
			"took":   time.Since(start).String(),
		})
		return err
	}
}
