package provider

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/provider/dto"
)

type UseCase interface {
	CreateProvider(ctx context.Context, input *dto.CreateProviderInput) (*model.Provider, error)
	GetProvider(ctx context.Context, id string) (*model.Provider, error)
	ListProviders(ctx context.Context, filters *dto.ProviderFilters) ([]model.Provider, int, error)
	UpdateProvider(ctx context.Context, input *dto.UpdateProviderInput) (*model.Provider, error)
	DeleteProvider(ctx context.Context, id string) error
}
