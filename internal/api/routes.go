package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/landtrust/internal/models"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", handler.metrics.Handler())
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	api.Get("/me", handler.AuthRequired, handler.Me)
	api.Get("/properties", handler.AuthRequired, handler.ListProperties)

	// Per-route middleware: a group on "/application" would also prefix-match "/applications".
	applicantOnly := handler.RoleRequired(models.RoleApplicant)
	api.Get("/application", handler.AuthRequired, applicantOnly, handler.GetApplication)
	api.Post("/application/steps/:step", handler.AuthRequired, applicantOnly, handler.SaveApplicationStep)
	api.Post("/application/submit", handler.AuthRequired, applicantOnly, handler.SubmitApplication)

	api.Get("/applications/:id/messages", handler.AuthRequired, handler.ListMessages)
	api.Post("/applications/:id/messages", handler.AuthRequired, handler.SendMessage)

	admin := api.Group("/admin", handler.AuthRequired, handler.RoleRequired(models.RoleAdmin))
	admin.Get("/applications", handler.ListApplications)
	admin.Get("/applications/:id", handler.GetApplicationDetail)
	admin.Post("/applications/:id/status", handler.UpdateApplicationStatus)

	homeowner := api.Group("/homeowner", handler.AuthRequired, handler.RoleRequired(models.RoleHomeowner))
	homeowner.Get("/resources", handler.HomeownerResources)
}
