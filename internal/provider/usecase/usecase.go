package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/product"
	"github.com/fekuna/omnipos-pos-service/internal/provider"
	"github.com/fekuna/omnipos-pos-service/internal/provider/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type providerUseCase struct {
	repo   provider.Repository
	cache  cache.Cache
	logger logger.ZapLogger
}

func NewProviderUseCase(repo provider.Repository, c cache.Cache, log logger.ZapLogger) provider.UseCase {
	return &providerUseCase{
		repo:   repo,
		cache:  c,
		logger: log,
	}
}

func validate(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", model.ErrValidation)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid email %q", model.ErrValidation, email)
		}
	}
	return nil
}

func (uc *providerUseCase) CreateProvider(ctx context.Context, input *dto.CreateProviderInput) (*model.Provider, error) {
	if err := validate(input.Name, input.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &model.Provider{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Website:   input.Website,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *providerUseCase) GetProvider(ctx context.Context, id string) (*model.Provider, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *providerUseCase) ListProviders(ctx context.Context, filters *dto.ProviderFilters) ([]model.Provider, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *providerUseCase) UpdateProvider(ctx context.Context, input *dto.UpdateProviderInput) (*model.Provider, error) {
	if err := validate(input.Name, input.Email); err != nil {
		return nil, err
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Email = input.Email
	p.Phone = input.Phone
	p.Website = input.Website
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Provider names take part in the product filters.
	uc.invalidateProductLists(ctx)
	return p, nil
}

func (uc *providerUseCase) DeleteProvider(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidateProductLists(ctx)
	return nil
}

func (uc *providerUseCase) invalidateProductLists(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, product.ListCachePattern); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
