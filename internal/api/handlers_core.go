package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) Health(c *fiber.Ctx) error {
	sqlDB, err := handler.db.DB()
	if err != nil {
		return apiError(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	ctx, cancel := handler.requestContext(c)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return apiError(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
