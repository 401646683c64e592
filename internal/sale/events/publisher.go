// Package events publishes sale lifecycle events to the message broker.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/broker"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SaleProcessed = "sale.processed"
	SaleAnnulled  = "sale.annulled"
)

type SaleEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	SaleID      string            `json:"sale_id"`
	UserID      string            `json:"user_id"`
	InvoiceType model.InvoiceType `json:"invoice_type"`
	PaymentType model.PaymentType `json:"payment_type"`
	Total       decimal.Decimal   `json:"total"`
	Items       []SaleItem        `json:"items"`
}

type SaleItem struct {
	ProductID string          `json:"product_id"`
	Count     int             `json:"count"`
	PriceSale decimal.Decimal `json:"price_sale"`
}

type Publisher struct {
	broker broker.Publisher
}

func NewPublisher(b broker.Publisher) *Publisher {
	return &Publisher{broker: b}
}

// Publish keys the message by sale id so events of one sale stay ordered.
func (p *Publisher) Publish(ctx context.Context, eventType string, sale *model.Sale, details []model.SaleDetail) error {
	items := make([]SaleItem, len(details))
	for i, d := range details {
		items[i] = SaleItem{ProductID: d.ProductID, Count: d.Count, PriceSale: d.PriceSale}
	}

	event := SaleEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload: SalePayload{
			SaleID:      sale.ID,
			UserID:      sale.UserID,
			InvoiceType: sale.InvoiceType,
			PaymentType: sale.PaymentType,
			Total:       model.SaleTotal(details),
			Items:       items,
		},
		Timestamp: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.broker.Publish(ctx, sale.ID, value)
}
