package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceType string

const (
	InvoiceNone    InvoiceType = "none"
	InvoiceVoucher InvoiceType = "voucher"
	InvoiceOther   InvoiceType = "other"
)

func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceNone, InvoiceVoucher, InvoiceOther:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentCash  PaymentType = "cash"
	PaymentOther PaymentType = "other"
)

func (t PaymentType) Valid() bool {
	return t == PaymentCash || t == PaymentOther
}

type Sale struct {
	BaseModel
	DateSale    time.Time    `db:"date_sale" json:"date_sale"`
	InvoiceType InvoiceType  `db:"invoice_type" json:"invoice_type"`
	PaymentType PaymentType  `db:"payment_type" json:"payment_type"`
	Closed      bool         `db:"close_sale" json:"closed"`
	Annulled    bool         `db:"anulate" json:"annulled"`
	UserID      string       `db:"user_id" json:"user_id"`
	Details     []SaleDetail `db:"-" json:"details,omitempty"`
}

// Total is derived from the details and never stored.
func (s *Sale) Total() decimal.Decimal {
	return SaleTotal(s.Details)
}

type SaleDetail struct {
	ID            string          `db:"id" json:"id"`
	SaleID        string          `db:"sale_id" json:"sale_id"`
	ProductID     string          `db:"product_id" json:"product_id"`
	ProductName   string          `db:"product_name" json:"product_name"` // Joined
	Count         int             `db:"count" json:"count"`
	PricePurchase decimal.Decimal `db:"price_purchase" json:"-"`
	PriceSale     decimal.Decimal `db:"price_sale" json:"price_sale"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`

	// LineTotal is filled by read queries and the sale processor; it is
	// not a column of sale_details.
	LineTotal decimal.Decimal `db:"subtotal" json:"subtotal"`
}

func (d SaleDetail) Subtotal() decimal.Decimal {
	return d.PriceSale.Mul(decimal.NewFromInt(int64(d.Count)))
}

func SaleTotal(details []SaleDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.Subtotal())
	}
	return total
}
