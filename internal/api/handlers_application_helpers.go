package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/services"
)

// parseApplicationPatch accepts an empty body as "no changes".
func parseApplicationPatch(c *fiber.Ctx) (services.ApplicationPatch, error) {
	patch := services.ApplicationPatch{}
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return patch, nil
	}
	if err := json.Unmarshal(body, &patch); err != nil {
		return services.ApplicationPatch{}, err
	}
	return patch, nil
}

func draftPayload(manager *services.DraftManager) fiber.Map {
	payload := fiber.Map{
		"step":        manager.Step(),
		"total_steps": services.TotalSteps,
		"steps":       services.ApplicationSteps(),
		"editable":    manager.Editable(),
	}
	if manager.HasSavedApplication() {
		payload["application"] = manager.Application()
	} else {
		payload["application"] = nil
	}
	return payload
}
