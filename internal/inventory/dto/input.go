package dto

import "github.com/fekuna/omnipos-pos-service/internal/model"

type AdjustInventoryInput struct {
	ProductID      string
	QuantityChange int
	MovementType   model.MovementType // adjustment (default) or restock
	Reason         string
	ReferenceID    string
	ReferenceType  string
	UserID         string
}

// StockReference names the document behind a batch of stock changes.
type StockReference struct {
	Type   string // "sale"
	ID     string
	UserID string
}

type StockLine struct {
	ProductID string
	Quantity  int
}
