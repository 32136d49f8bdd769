package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementSale       MovementType = "SALE"
	MovementVoid       MovementType = "VOID"
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// StockMovement records every change in a product's stock as a signed delta.
// The table is append-only: cancellations write inverse rows, nothing is
// ever updated or deleted.
type StockMovement struct {
	BaseModel
	StoreID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"store_id"`
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Type        MovementType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=SALE VOID IN OUT ADJUSTMENT"`
	Quantity    int          `gorm:"not null" json:"quantity"` // positive = inbound, negative = outbound
	Description string       `gorm:"type:varchar(255)" json:"description"`
	ReferenceID *uuid.UUID   `gorm:"type:uuid" json:"reference_id,omitempty"` // sale id for SALE/VOID rows

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
}
