package api

import (
	"github.com/gofiber/fiber/v2"
)

// RoleRequired gates a route group on a role the caller currently holds.
func (handler *Handler) RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := currentIdentity(c)
		if !ok {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		if !identity.HasRole(role) {
			return apiError(c, fiber.StatusForbidden, role+" access required")
		}
		return c.Next()
	}
}
