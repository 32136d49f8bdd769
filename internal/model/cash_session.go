package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CashSessionStatus string

const (
	SessionOpen   CashSessionStatus = "OPEN"
	SessionClosed CashSessionStatus = "CLOSED"
)

// CashSession bounds one till shift: from the opening float to the counted
// close. A store can have at most one OPEN session at a time (partial unique
// index). A closed session is terminal; the next shift opens a new one.
type CashSession struct {
	BaseModel
	StoreID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	CashierID      uuid.UUID         `gorm:"type:uuid;not null" json:"cashier_id"`
	OpenedAt       time.Time         `gorm:"not null" json:"opened_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
	OpeningAmount  decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"opening_amount"`
	ClosingAmount  *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"closing_amount,omitempty"`
	ExpectedAmount *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"expected_amount,omitempty"`
	Status         CashSessionStatus `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`
}

// TableName specifies the table name for GORM
func (CashSession) TableName() string {
	return "cash_sessions"
}

// Variance is counted minus expected cash. Only meaningful once closed.
func (s *CashSession) Variance() decimal.Decimal {
	if s.ClosingAmount == nil || s.ExpectedAmount == nil {
		return decimal.Zero
	}
	return s.ClosingAmount.Sub(*s.ExpectedAmount)
}

// CashSessionResponse for API responses
type CashSessionResponse struct {
	ID             uuid.UUID         `json:"id"`
	StoreID        uuid.UUID         `json:"store_id"`
	CashierID      uuid.UUID         `json:"cashier_id"`
	OpenedAt       time.Time         `json:"opened_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
	OpeningAmount  decimal.Decimal   `json:"opening_amount"`
	ClosingAmount  *decimal.Decimal  `json:"closing_amount,omitempty"`
	ExpectedAmount *decimal.Decimal  `json:"expected_amount,omitempty"`
	Variance       decimal.Decimal   `json:"variance"`
	Status         CashSessionStatus `json:"status"`
	Notes          string            `json:"notes,omitempty"`
}

// ToResponse converts CashSession to CashSessionResponse
func (s *CashSession) ToResponse() CashSessionResponse {
	return CashSessionResponse{
		ID:             s.ID,
		StoreID:        s.StoreID,
		CashierID:      s.CashierID,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		OpeningAmount:  s.OpeningAmount,
		ClosingAmount:  s.ClosingAmount,
		ExpectedAmount: s.ExpectedAmount,
		Variance:       s.Variance(),
		Status:         s.Status,
		Notes:          s.Notes,
	}
}
