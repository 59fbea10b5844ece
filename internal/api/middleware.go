package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/models"
)

const (
	authCookieName     = "landtrust_auth"
	contextIdentityKey = "current_identity"
)

func currentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(contextIdentityKey).(models.Identity)
	if !ok || identity.IsZero() {
		return models.Identity{}, false
	}
	return identity, true
}
