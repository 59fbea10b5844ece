package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (handler *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), handler.requestTimeout)
}

var badRequestErrors = []error{
	services.ErrHouseSelectionRequired,
	services.ErrUnknownHouse,
	services.ErrInvalidStep,
	services.ErrSubmitBeforeFinalStep,
	services.ErrHouseholdMemberIndex,
	services.ErrUnknownStatus,
	services.ErrMessageEmpty,
	services.ErrMessageTooLong,
}

// respondServiceError maps the service and gateway error taxonomy onto HTTP statuses.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   services.ErrValidationFailed.Error(),
			"missing": validationErr.Missing,
		})
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return apiError(c, fiber.StatusBadRequest, target.Error())
		}
	}

	var transitionErr *services.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		return apiError(c, fiber.StatusConflict, transitionErr.Error())
	case errors.Is(err, services.ErrApplicationLocked):
		return apiError(c, fiber.StatusConflict, services.ErrApplicationLocked.Error())
	case errors.Is(err, db.ErrForbidden):
		return apiError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, db.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, context.DeadlineExceeded):
		return apiError(c, fiber.StatusGatewayTimeout, "request timed out")
	}

	handler.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}
