package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListMessages(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	messages, err := handler.messageService.List(ctx, identity, c.Params("id"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (handler *Handler) SendMessage(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := messageInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	message, err := handler.messageService.Send(ctx, identity, c.Params("id"), input.Message)
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	handler.metrics.MessageSent(message.IsAdmin)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}
