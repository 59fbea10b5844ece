package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/landtrust/internal/models"
)

func requestToken(c *fiber.Ctx) string {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.Cookies(authCookieName))
}

// authenticateRequest validates the session token and reloads the caller's roles from storage.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (models.Identity, error) {
	tokenValue := requestToken(c)
	if tokenValue == "" {
		return models.Identity{}, errors.New("missing auth token")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return models.Identity{}, errors.New("token expired")
	}

	handler.ensureDependencies()
	ctx, cancel := handler.requestContext(c)
	defer cancel()
	return handler.authService.ResolveIdentity(ctx, claims.UserID)
}
