package cart

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type Repository interface {
	// Upsert inserts the item or adds its count to the existing item with
	// the same barcode, returning the stored row.
	Upsert(ctx context.Context, item *model.CartItem) (*model.CartItem, error)
	FindByID(ctx context.Context, id string) (*model.CartItem, error)
	Decrement(ctx context.Context, id string) (*model.CartItem, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
	ListLines(ctx context.Context) ([]model.CartLine, error)
}
