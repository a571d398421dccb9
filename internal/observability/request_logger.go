package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs completed requests and feeds HTTP metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		metrics.RecordRequest(path, c.Method(), status, duration)
		logger.Info("request completed",
			zap.String("method", c.Method()),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
		return err
	}
}
