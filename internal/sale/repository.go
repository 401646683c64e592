package sale

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, sale *model.Sale) error
	CreateDetails(ctx context.Context, details []model.SaleDetail) error
	FindByID(ctx context.Context, id string) (*model.Sale, error)
	// FindDetails loads the details of all given sales in one query, with
	// product names and line totals filled in.
	FindDetails(ctx context.Context, saleIDs []string) ([]model.SaleDetail, error)
	ListUnclosed(ctx context.Context, includeAnnulled bool) ([]model.Sale, error)

	// MarkAnnulled flips anulate to true and reports false when the sale was
	// already annulled.
	MarkAnnulled(ctx context.Context, id string) (bool, error)
	CloseSales(ctx context.Context, ids []string) (int, error)

	MonthlyForProduct(ctx context.Context, productID string, from, to time.Time) (*model.MonthlySales, error)
}
