package dto

import (
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/shopspring/decimal"
)

type AddItemInput struct {
	Barcode string
	Count   int
}

type CartLineView struct {
	model.CartLine
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartSummary struct {
	Items []CartLineView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}
