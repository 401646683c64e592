package model

import "time"

type MovementType string

const (
	MovementSale       MovementType = "sale"
	MovementAnnulment  MovementType = "annulment"
	MovementAdjustment MovementType = "adjustment"
	MovementRestock    MovementType = "restock"
)

type InventoryMovement struct {
	ID             string       `db:"id" json:"id"`
	ProductID      string       `db:"product_id" json:"product_id"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange int          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type"`
	ReferenceID    *string      `db:"reference_id" json:"reference_id"`
	Notes          string       `db:"notes" json:"notes"`
	CreatedBy      *string      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
