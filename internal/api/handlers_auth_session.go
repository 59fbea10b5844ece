package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/models"
	"github.com/terraincognita07/landtrust/internal/services"
)

func identityPayload(identity models.Identity) fiber.Map {
	return fiber.Map{
		"id":                   identity.UserID,
		"email":                identity.Email,
		"roles":                identity.Roles,
		"primary_role":         identity.PrimaryRole(),
		"must_change_password": identity.MustChangePassword,
	}
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.ConfirmPassword != "" && input.Password != input.ConfirmPassword {
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	user, err := handler.authService.Register(ctx, input.Email, input.Password, input.FullName)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already exists")
	case err != nil:
		return handler.respondServiceError(c, err)
	}

	token, err := handler.setAuthCookie(c, &user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	identity, err := handler.authService.ResolveIdentity(ctx, user.ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":    true,
		"token": token,
		"user":  identityPayload(identity),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	now := time.Now()
	limiterKey := loginLimiterKey(c, input.Email)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	user, err := handler.authService.Authenticate(ctx, input.Email, input.Password)
	if errors.Is(err, services.ErrInvalidLogin) {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.setAuthCookie(c, &user)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	identity, err := handler.authService.ResolveIdentity(ctx, user.ID)
	if err != nil {
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"token": token,
		"user":  identityPayload(identity),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(identityPayload(identity))
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if strings.TrimSpace(input.NewPassword) != strings.TrimSpace(input.ConfirmPassword) {
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	}

	ctx, cancel := handler.requestContext(c)
	defer cancel()

	err := handler.authService.ChangePassword(ctx, identity.UserID, input.CurrentPassword, input.NewPassword)
	switch {
	case errors.Is(err, services.ErrInvalidLogin):
		return apiError(c, fiber.StatusUnauthorized, "invalid current password")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrPasswordUnchanged):
		return apiError(c, fiber.StatusBadRequest, services.ErrPasswordUnchanged.Error())
	case err != nil:
		return handler.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
