package sale

import (
	"context"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/sale/dto"
)

type UseCase interface {
	ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.ProcessSaleOutput, error)
	Annul(ctx context.Context, input *dto.AnnulInput) (*dto.AnnulOutput, error)
	UnclosedSales(ctx context.Context) ([]model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	MonthlySalesForProduct(ctx context.Context, productID string) (*model.MonthlySales, error)
	CloseRegister(ctx context.Context, userID string) (*dto.RegisterSummary, error)
}
