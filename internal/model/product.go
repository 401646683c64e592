package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Barcode       string          `db:"barcode" json:"barcode"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Brand         string          `db:"brand" json:"brand"`
	ProviderID    *string         `db:"provider_id" json:"provider_id"` // Nullable
	PricePurchase decimal.Decimal `db:"price_purchase" json:"price_purchase"`
	PriceSale     decimal.Decimal `db:"price_sale" json:"price_sale"`
	Stok          int             `db:"stok" json:"stok"`
	NumSales      int             `db:"num_sales" json:"num_sales"`
	UserCreated   string          `db:"user_created" json:"user_created"`
}

type Provider struct {
	BaseModel
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Phone   string `db:"phone" json:"phone"`
	Website string `db:"website" json:"website"`
}

// MonthlySales aggregates the sale details of one product within a calendar month.
type MonthlySales struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Count     int             `db:"count" json:"count"`
	Total     decimal.Decimal `db:"total" json:"total"`
}
