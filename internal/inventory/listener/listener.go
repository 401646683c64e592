package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/inventory"
	"github.com/fekuna/omnipos-pos-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-pos-service/internal/pkg/logger"
	"go.uber.org/zap"
)

const EventStockReceived = "StockReceived"

type InventoryListener struct {
	consumer broker.Reader
	uc       inventory.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewInventoryListener(consumer broker.Reader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockReceivedEvent struct {
	EventID   string               `json:"event_id"`
	EventType string               `json:"event_type"`
	Payload   StockReceivedPayload `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

type StockReceivedPayload struct {
	ReceiptID string             `json:"receipt_id"`
	UserID    string             `json:"user_id"`
	Items     []StockItemPayload `json:"items"`
}

type StockItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var event StockReceivedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != EventStockReceived {
		return
	}

	l.logger.Info("Processing StockReceived event", zap.String("receipt_id", event.Payload.ReceiptID))

	userID := event.Payload.UserID
	if userID == "" {
		userID = "system"
	}

	for _, item := range event.Payload.Items {
		_, err := l.uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
			ProductID:      item.ProductID,
			QuantityChange: item.Quantity,
			MovementType:   model.MovementRestock,
			Reason:         "Stock received",
			ReferenceID:    event.Payload.ReceiptID,
			ReferenceType:  "stock_receipt",
			UserID:         userID,
		})
		if err != nil {
			l.logger.Error("Failed to restock product",
				zap.String("receipt_id", event.Payload.ReceiptID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
