package api

import (
	"github.com/terraincognita07/landtrust/internal/db"
	"github.com/terraincognita07/landtrust/internal/models"
	"github.com/terraincognita07/landtrust/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.gateway = db.NewGateway(handler.repositories)
	handler.authService = services.NewAuthService(handler.repositories.Users, handler.repositories.Roles)
	handler.statusController = services.NewStatusController(handler.gateway, handler.logger.Named("status"), handler.roleGrantAttempts)
	handler.messageService = services.NewMessageService(handler.gateway)
	handler.propertyService = services.NewPropertyService(handler.gateway)
	return handler
}

func (handler *Handler) ensureDependencies() {
	if handler.repositories == nil {
		if handler.db == nil {
			return
		}
		handler.repositories = db.NewRepositories(handler.db)
	}

	if handler.gateway == nil {
		handler.gateway = db.NewGateway(handler.repositories)
	}
	if handler.authService == nil {
		handler.authService = services.NewAuthService(handler.repositories.Users, handler.repositories.Roles)
	}
	if handler.statusController == nil {
		handler.statusController = services.NewStatusController(handler.gateway, handler.logger.Named("status"), handler.roleGrantAttempts)
	}
	if handler.messageService == nil {
		handler.messageService = services.NewMessageService(handler.gateway)
	}
	if handler.propertyService == nil {
		handler.propertyService = services.NewPropertyService(handler.gateway)
	}
}

// newDraftManager builds the per-request wizard state for one applicant.
func (handler *Handler) newDraftManager(identity models.Identity) *services.DraftManager {
	handler.ensureDependencies()
	return services.NewDraftManager(
		handler.gateway,
		identity,
		services.WithStepValidation(handler.strictStepValidation),
		services.WithPropertyCatalog(handler.propertyService),
	)
}
