package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/cart"
	"github.com/fekuna/omnipos-pos-service/internal/cart/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductFinder resolves scanned barcodes.
type ProductFinder interface {
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

type cartUseCase struct {
	repo     cart.Repository
	products ProductFinder
	logger   logger.ZapLogger
}

func NewCartUseCase(repo cart.Repository, products ProductFinder, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		repo:     repo,
		products: products,
		logger:   log,
	}
}

func (uc *cartUseCase) AddOrIncrement(ctx context.Context, input *dto.AddItemInput) (*model.CartItem, error) {
	barcode := strings.TrimSpace(input.Barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", model.ErrValidation)
	}
	if input.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", model.ErrValidation)
	}

	p, err := uc.products.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item, err := uc.repo.Upsert(ctx, &model.CartItem{
		ID:        uuid.New().String(),
		Barcode:   barcode,
		ProductID: p.ID,
		Count:     input.Count,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("cart item added", zap.String("barcode", barcode), zap.Int("count", item.Count))
	return item, nil
}

func (uc *cartUseCase) Decrement(ctx context.Context, itemID string) (*model.CartItem, error) {
	return uc.repo.Decrement(ctx, itemID)
}

func (uc *cartUseCase) Remove(ctx context.Context, itemID string) error {
	return uc.repo.Delete(ctx, itemID)
}

func (uc *cartUseCase) ClearAll(ctx context.Context) (int, error) {
	return uc.repo.DeleteAll(ctx)
}

func (uc *cartUseCase) TotalDue(ctx context.Context) (decimal.Decimal, error) {
	lines, err := uc.repo.ListLines(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return model.CartTotal(lines), nil
}

func (uc *cartUseCase) ListItems(ctx context.Context) (*dto.CartSummary, error) {
	lines, err := uc.repo.ListLines(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CartLineView, len(lines))
	for i, l := range lines {
		items[i] = dto.CartLineView{CartLine: l, Subtotal: l.Subtotal()}
	}
	return &dto.CartSummary{Items: items, Total: model.CartTotal(lines)}, nil
}
