package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCard     PaymentMethod = "CARD"
	PaymentQR       PaymentMethod = "QR"
)

// ValidPaymentMethod reports whether m belongs to the fixed payment set.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentQR:
		return true
	}
	return false
}

type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCancelled SaleStatus = "CANCELLED"
)

// Sale is a completed (or later voided) checkout. Status only ever moves
// COMPLETED -> CANCELLED, never back.
type Sale struct {
	BaseModel
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"store_id"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        SaleStatus      `gorm:"type:varchar(20);not null;default:'COMPLETED';index" json:"status"`
	CustomerName  string          `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone string          `gorm:"type:varchar(30);index" json:"customer_phone"`
	CashSessionID *uuid.UUID      `gorm:"type:uuid;index" json:"cash_session_id"`

	// Client-generated token that makes a retried submission recognizable.
	// Enforced unique per store by a partial index when non-empty.
	IdempotencyKey string     `gorm:"type:varchar(64);index" json:"idempotency_key"`
	VoidedAt       *time.Time `json:"voided_at,omitempty"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// SaleItem is one line of a sale. Name and unit price are snapshots taken at
// checkout time, never re-read from the live product.
type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
