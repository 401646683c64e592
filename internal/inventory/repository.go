package inventory

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
)

// Repository owns every change to products.stok and products.num_sales.
// Each stock method returns the stock left after the change.
type Repository interface {
	// Sell lowers stok and raises num_sales by qty. It fails with
	// model.ErrInsufficientStock when less than qty is on hand.
	Sell(ctx context.Context, productID string, qty int) (int, error)
	// Restore is the inverse of Sell; num_sales never drops below zero.
	Restore(ctx context.Context, productID string, qty int) (int, error)
	// Adjust applies delta to stok, refusing to go below zero.
	Adjust(ctx context.Context, productID string, delta int) (int, error)

	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Product, int, error)

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
