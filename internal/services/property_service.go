package services

import (
	"context"
	"fmt"

	"github.com/terraincognita07/landtrust/internal/models"
)

type PropertyGateway interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	CountProperties(ctx context.Context, propertyIDs []string) (int64, error)
}

type PropertyService struct {
	gateway PropertyGateway
}

func NewPropertyService(gateway PropertyGateway) *PropertyService {
	return &PropertyService{gateway: gateway}
}

func (service *PropertyService) ListAvailable(ctx context.Context) ([]models.Property, error) {
	properties, err := service.gateway.ListProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return properties, nil
}

// ValidateSelection fails with ErrUnknownHouse unless every id names a listed property.
func (service *PropertyService) ValidateSelection(ctx context.Context, houseIDs []string) error {
	if len(houseIDs) == 0 {
		return nil
	}
	known, err := service.gateway.CountProperties(ctx, houseIDs)
	if err != nil {
		return fmt.Errorf("check selected houses: %w", err)
	}
	if known != int64(len(houseIDs)) {
		return ErrUnknownHouse
	}
	return nil
}
