package inventory

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type UseCase interface {
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.InventoryMovement, error)
	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Product, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// RecordSale and RecordAnnulment join the caller's transaction when
	// there is one.
	RecordSale(ctx context.Context, ref *dto.StockReference, lines []dto.StockLine) error
	RecordAnnulment(ctx context.Context, ref *dto.StockReference, lines []dto.StockLine) error
}
