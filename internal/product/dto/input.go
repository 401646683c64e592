package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Barcode       string
	Name          string
	Description   string
	Brand         string
	ProviderID    string
	PricePurchase decimal.Decimal
	PriceSale     decimal.Decimal
	Stok          int
	UserID        string
}

type UpdateProductInput struct {
	ID            string
	Barcode       string
	Name          string
	Description   string
	Brand         string
	ProviderID    string
	PricePurchase decimal.Decimal
	PriceSale     decimal.Decimal
}
