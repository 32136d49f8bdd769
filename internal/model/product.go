package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	StoreID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id" validate:"uuid_required"`
	SKU          string          `gorm:"type:varchar(50);index" json:"sku"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category     string          `gorm:"type:varchar(100)" json:"category"`
	SalePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sale_price"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost_price"`
	CurrentStock int             `gorm:"default:0" json:"current_stock"`
	MinStock     int             `gorm:"default:0" json:"min_stock"`

	// User tracking
	CreatedByUserID *uuid.UUID `gorm:"type:uuid" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *uuid.UUID `gorm:"type:uuid" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID;references:ID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User      `gorm:"foreignKey:UpdatedByUserID;references:ID" json:"updated_by_user,omitempty"`
}

// IsLowStock reports whether the product is at or below its restock threshold.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStock
}
