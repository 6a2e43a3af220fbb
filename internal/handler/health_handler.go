package handler

import (
	"context"
	"time"

	"edututor/internal/domain"
	"edututor/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const cachePingTimeout = 2 * time.Second

// Health reports that the server is up. The model is loaded before the
// server starts listening, so a response implies a usable model handle.
// The quiz cache is optional and only reported; generation runs without it.
func Health(model string, cache domain.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "model": model, "cache": "disabled"}
		if cache != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), cachePingTimeout)
			defer cancel()
			if err := cache.Ping(ctx); err != nil {
				logger.Get().Warn("Health: quiz cache ping failed", zap.Error(err))
				body["cache"] = "unavailable"
			} else {
				body["cache"] = "ok"
			}
		}
		return c.JSON(body)
	}
}
