package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        string    `db:"id" json:"id"`
	Barcode   string    `db:"barcode" json:"barcode"`
	ProductID string    `db:"product_id" json:"product_id"`
	Count     int       `db:"count" json:"count"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CartLine is a cart item joined with the product data needed to charge it.
type CartLine struct {
	CartItem
	ProductName   string          `db:"product_name" json:"product_name"`
	PriceSale     decimal.Decimal `db:"price_sale" json:"price_sale"`
	PricePurchase decimal.Decimal `db:"price_purchase" json:"-"`
	Stok          int             `db:"stok" json:"stok"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.PriceSale.Mul(decimal.NewFromInt(int64(l.Count)))
}

func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
