package provider

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/provider/dto"
)

type Repository interface {
	Create(ctx context.Context, provider *model.Provider) error
	FindByID(ctx context.Context, id string) (*model.Provider, error)
	FindAll(ctx context.Context, filters *dto.ProviderFilters) ([]model.Provider, int, error)
	Update(ctx context.Context, provider *model.Provider) error
	Delete(ctx context.Context, id string) error
}
