package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/services"
)

func (handler *Handler) ListApplications(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	summaries, err := handler.statusController.List(ctx, identity, c.Query("status"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"applications": summaries})
}

func (handler *Handler) GetApplicationDetail(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	application, err := handler.statusController.Get(ctx, identity, c.Params("id"))
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"application":   application,
		"next_statuses": services.NextStatuses(application.Status),
	})
}

func (handler *Handler) UpdateApplicationStatus(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := statusInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	application, err := handler.statusController.Transition(ctx, identity, c.Params("id"), input.Status, input.AdminNotes)
	var pending *services.RoleGrantPendingError
	if errors.As(err, &pending) {
		handler.metrics.StatusChanged(application.Status)
		handler.metrics.RoleGrantFailed()
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":       services.ErrRoleGrantPending.Error(),
			"application": application,
		})
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}

	handler.metrics.StatusChanged(application.Status)
	return c.JSON(fiber.Map{"application": application})
}
