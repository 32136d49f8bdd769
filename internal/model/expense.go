package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a cash outflow not tied to a sale (supplies, delivery, etc).
// It reduces the expected cash of the business day it was created in.
type Expense struct {
	BaseModel
	StoreID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	CashierID   uuid.UUID       `gorm:"type:uuid;not null" json:"cashier_id"`
	Category    string          `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
}
