package cart

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/cart/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	AddOrIncrement(ctx context.Context, input *dto.AddItemInput) (*model.CartItem, error)
	Decrement(ctx context.Context, itemID string) (*model.CartItem, error)
	Remove(ctx context.Context, itemID string) error
	ClearAll(ctx context.Context) (int, error)
	TotalDue(ctx context.Context) (decimal.Decimal, error)
	ListItems(ctx context.Context) (*dto.CartSummary, error)
}
