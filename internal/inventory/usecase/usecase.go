package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/inventory"
	"github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/postgres"
	"github.com/fekuna/omnipos-pos-service/internal/product"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ Transactor = (*postgres.Transactor)(nil)

type inventoryUseCase struct {
	repo   inventory.Repository
	tx     Transactor
	cache  cache.Cache
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, tx Transactor, c cache.Cache, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		tx:     tx,
		cache:  c,
		logger: log,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.InventoryMovement, error) {
	if input.QuantityChange == 0 {
		return nil, fmt.Errorf("%w: quantity change must not be zero", model.ErrValidation)
	}
	movementType := input.MovementType
	switch movementType {
	case "":
		movementType = model.MovementAdjustment
	case model.MovementAdjustment:
	case model.MovementRestock:
		if input.QuantityChange < 0 {
			return nil, fmt.Errorf("%w: restock quantity must be positive", model.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported movement type %q", model.ErrValidation, movementType)
	}

	var movement *model.InventoryMovement
	err := uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		after, err := uc.repo.Adjust(ctx, input.ProductID, input.QuantityChange)
		if err != nil {
			return err
		}

		movement = &model.InventoryMovement{
			ID:             uuid.New().String(),
			ProductID:      input.ProductID,
			MovementType:   movementType,
			QuantityChange: input.QuantityChange,
			QuantityBefore: after - input.QuantityChange,
			QuantityAfter:  after,
			ReferenceType:  optional(input.ReferenceType),
			ReferenceID:    optional(input.ReferenceID),
			Notes:          input.Reason,
			CreatedBy:      optional(input.UserID),
			CreatedAt:      time.Now().UTC(),
		}
		return uc.repo.LogMovement(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateListCache(ctx)
	return movement, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Product, int, error) {
	if filters.Threshold < 0 {
		return nil, 0, fmt.Errorf("%w: threshold must not be negative", model.ErrValidation)
	}
	return uc.repo.ListLowStock(ctx, filters)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// mergeLines sums quantities per product and sorts by product id so
// concurrent sales touch rows in the same order.
func mergeLines(lines []dto.StockLine) []dto.StockLine {
	totals := make(map[string]int, len(lines))
	for _, l := range lines {
		totals[l.ProductID] += l.Quantity
	}
	merged := make([]dto.StockLine, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, dto.StockLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged
}

func (uc *inventoryUseCase) RecordSale(ctx context.Context, ref *dto.StockReference, lines []dto.StockLine) error {
	return uc.record(ctx, ref, lines, model.MovementSale, -1, uc.repo.Sell)
}

func (uc *inventoryUseCase) RecordAnnulment(ctx context.Context, ref *dto.StockReference, lines []dto.StockLine) error {
	return uc.record(ctx, ref, lines, model.MovementAnnulment, 1, uc.repo.Restore)
}

func (uc *inventoryUseCase) record(
	ctx context.Context,
	ref *dto.StockReference,
	lines []dto.StockLine,
	movementType model.MovementType,
	sign int,
	apply func(ctx context.Context, productID string, qty int) (int, error),
) error {
	return uc.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		for _, line := range mergeLines(lines) {
			if line.Quantity <= 0 {
				return fmt.Errorf("%w: quantity for product %s must be positive", model.ErrValidation, line.ProductID)
			}
			after, err := apply(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}

			change := sign * line.Quantity
			err = uc.repo.LogMovement(ctx, &model.InventoryMovement{
				ID:             uuid.New().String(),
				ProductID:      line.ProductID,
				MovementType:   movementType,
				QuantityChange: change,
				QuantityBefore: after - change,
				QuantityAfter:  after,
				ReferenceType:  optional(ref.Type),
				ReferenceID:    optional(ref.ID),
				CreatedBy:      optional(ref.UserID),
				CreatedAt:      now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (uc *inventoryUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, product.ListCachePattern); err != nil {
		uc.logger.Warn("product list cache invalidation failed", zap.Error(err))
	}
}
