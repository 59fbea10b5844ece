package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/services"
)

func (handler *Handler) GetApplication(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	manager := handler.newDraftManager(identity)
	if err := manager.Load(ctx); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(draftPayload(manager))
}

// SaveApplicationStep merges the step's fields into the saved draft and advances past it.
func (handler *Handler) SaveApplicationStep(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, services.ErrInvalidStep.Error())
	}
	patch, err := parseApplicationPatch(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	manager := handler.newDraftManager(identity)
	if err := manager.Load(ctx); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := manager.SetStep(step); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := manager.Update(patch); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := manager.Advance(ctx); err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(draftPayload(manager))
}

// SubmitApplication applies the final step's fields and submits the application.
func (handler *Handler) SubmitApplication(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	patch, err := parseApplicationPatch(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	manager := handler.newDraftManager(identity)
	if err := manager.Load(ctx); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := manager.SetStep(services.TotalSteps); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := manager.Update(patch); err != nil {
		return handler.respondServiceError(c, err)
	}
	if err := manager.Finalize(ctx); err != nil {
		return handler.respondServiceError(c, err)
	}

	handler.metrics.ApplicationSubmitted()
	return c.JSON(draftPayload(manager))
}
