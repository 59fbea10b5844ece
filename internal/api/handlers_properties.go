package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/services"
)

func (handler *Handler) ListProperties(c *fiber.Ctx) error {
	ctx, cancel := handler.requestContext(c)
	defer cancel()

	properties, err := handler.propertyService.ListAvailable(ctx)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"properties": properties})
}

func (handler *Handler) HomeownerResources(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"resources":     services.HomeownerResources(),
		"contact_email": services.TrustContactEmail,
	})
}
