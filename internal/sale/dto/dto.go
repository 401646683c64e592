package dto

import (
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/shopspring/decimal"
)

type ProcessSaleInput struct {
	InvoiceType model.InvoiceType
	PaymentType model.PaymentType
	UserID      string
}

// ProcessSaleOutput is empty when the cart held nothing to sell; no sale
// is recorded in that case.
type ProcessSaleOutput struct {
	Sale    *model.Sale        `json:"sale"`
	Details []model.SaleDetail `json:"details"`
	Total   decimal.Decimal    `json:"total"`
}

func (o *ProcessSaleOutput) Empty() bool {
	return o.Sale == nil
}

type AnnulInput struct {
	SaleID string
	UserID string
}

type AnnulOutput struct {
	Sale            *model.Sale `json:"sale"`
	AlreadyAnnulled bool        `json:"already_annulled"`
}

type RegisterSummary struct {
	SalesClosed int             `json:"sales_closed"`
	Annulled    int             `json:"annulled"`
	Total       decimal.Decimal `json:"total"`
}
