package service

import (
	"errors"
	"fmt"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrSessionAlreadyOpen   = errors.New("a cash session is already open for this store")
	ErrSessionNotFound      = errors.New("cash session not found")
	ErrSessionAlreadyClosed = errors.New("cash session already closed")
	ErrNegativeAmount       = errors.New("amount cannot be negative")
)

type CashSessionService interface {
	Open(storeID, cashierID uuid.UUID, req *OpenSessionRequest) (*model.CashSession, error)
	Close(storeID, sessionID uuid.UUID, cashierID string, req *CloseSessionRequest) (*CloseSessionResult, error)
	Current(storeID uuid.UUID) (*model.CashSession, error)
	History(storeID uuid.UUID, limit int) ([]SessionHistoryEntry, error)
}

type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Notes         string          `json:"notes"`
}

type CloseSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Notes         string          `json:"notes"`
}

// CloseSessionResult reports the drawer math. Variance is informational:
// the session closes whether the drawer is short, over, or exact.
type CloseSessionResult struct {
	Session        model.CashSessionResponse `json:"session"`
	TotalSales     decimal.Decimal           `json:"total_sales"`
	CashSales      decimal.Decimal           `json:"cash_sales"`
	Expenses       decimal.Decimal           `json:"expenses"`
	ExpectedAmount decimal.Decimal           `json:"expected_amount"`
	Variance       decimal.Decimal           `json:"variance"`
}

// SessionHistoryEntry is one past shift with its aggregates.
type SessionHistoryEntry struct {
	Session    model.CashSessionResponse `json:"session"`
	TotalSales decimal.Decimal           `json:"total_sales"`
	CashSales  decimal.Decimal           `json:"cash_sales"`
	Expenses   decimal.Decimal           `json:"expenses"`
}

type cashSessionService struct {
	sessionRepo repository.CashSessionRepository
	saleRepo    repository.SaleRepository
	expenseRepo repository.ExpenseRepository
	wsHub       *ws.Hub
}

func NewCashSessionService(
	sessionRepo repository.CashSessionRepository,
	saleRepo repository.SaleRepository,
	expenseRepo repository.ExpenseRepository,
	hub *ws.Hub,
) CashSessionService {
	return &cashSessionService{
		sessionRepo: sessionRepo,
		saleRepo:    saleRepo,
		expenseRepo: expenseRepo,
		wsHub:       hub,
	}
}

// Open starts a new till shift. The partial unique index on
// (store_id) WHERE status = 'OPEN' is the real mutual-exclusion mechanism;
// the lookup before insert only gives a friendlier error on the common path.
func (s *cashSessionService) Open(storeID, cashierID uuid.UUID, req *OpenSessionRequest) (*model.CashSession, error) {
	if req.OpeningAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if _, err := s.sessionRepo.FindOpenByStore(storeID); err == nil {
		return nil, ErrSessionAlreadyOpen
	}

	session := &model.CashSession{
		StoreID:       storeID,
		CashierID:     cashierID,
		OpenedAt:      time.Now(),
		OpeningAmount: req.OpeningAmount,
		Status:        model.SessionOpen,
		Notes:         req.Notes,
	}
	session.CreatedBy = cashierID.String()
	session.UpdatedBy = cashierID.String()

	if err := s.sessionRepo.Create(session); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSessionAlreadyOpen
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"session_id": session.ID,
		"store":      storeID,
		"opening":    req.OpeningAmount,
	}).Info("cash session opened")

	go s.wsHub.BroadcastEvent("cash_session_opened", map[string]interface{}{
		"session_id":     session.ID,
		"store_id":       storeID,
		"opening_amount": req.OpeningAmount,
	})

	return session, nil
}

// Close counts the drawer against what it should hold:
//
//	expected = opening + cash sales - business-day expenses
//	variance = counted - expected
//
// The variance is reported, never rejected — real drawers run short or over.
func (s *cashSessionService) Close(storeID, sessionID uuid.UUID, cashierID string, req *CloseSessionRequest) (*CloseSessionResult, error) {
	if req.CountedAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	session, err := s.sessionRepo.FindByID(sessionID)
	if err != nil || session.StoreID != storeID {
		return nil, ErrSessionNotFound
	}
	if session.Status == model.SessionClosed {
		return nil, ErrSessionAlreadyClosed
	}

	totals, err := s.saleRepo.SessionTotals(sessionID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := businessDayBounds(session.OpenedAt)
	expenses, err := s.expenseRepo.SumByStoreBetween(storeID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	expected := session.OpeningAmount.Add(totals.CashSales).Sub(expenses)
	variance := req.CountedAmount.Sub(expected)
	now := time.Now()

	notes := session.Notes
	if req.Notes != "" {
		notes = req.Notes
	}

	// Conditional update: loses to a concurrent close instead of
	// overwriting it.
	affected, err := s.sessionRepo.Close(sessionID, req.CountedAmount, expected, notes, cashierID, now)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrSessionAlreadyClosed
	}

	session.Status = model.SessionClosed
	session.ClosedAt = &now
	session.ClosingAmount = &req.CountedAmount
	session.ExpectedAmount = &expected
	session.Notes = notes

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"expected":   expected,
		"counted":    req.CountedAmount,
		"variance":   variance,
	}).Info("cash session closed")

	go s.wsHub.BroadcastEvent("cash_session_closed", map[string]interface{}{
		"session_id": sessionID,
		"store_id":   storeID,
		"expected":   expected,
		"counted":    req.CountedAmount,
		"variance":   variance,
		"message":    fmt.Sprintf("Till closed with variance %s", variance.StringFixed(2)),
	})

	return &CloseSessionResult{
		Session:        session.ToResponse(),
		TotalSales:     totals.TotalSales,
		CashSales:      totals.CashSales,
		Expenses:       expenses,
		ExpectedAmount: expected,
		Variance:       variance,
	}, nil
}

func (s *cashSessionService) Current(storeID uuid.UUID) (*model.CashSession, error) {
	session, err := s.sessionRepo.FindOpenByStore(storeID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *cashSessionService) History(storeID uuid.UUID, limit int) ([]SessionHistoryEntry, error) {
	sessions, err := s.sessionRepo.FindAllByStore(storeID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]SessionHistoryEntry, 0, len(sessions))
	for i := range sessions {
		session := sessions[i]
		totals, err := s.saleRepo.SessionTotals(session.ID)
		if err != nil {
			return nil, err
		}
		dayStart, dayEnd := businessDayBounds(session.OpenedAt)
		expenses, err := s.expenseRepo.SumByStoreBetween(storeID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		entries = append(entries, SessionHistoryEntry{
			Session:    session.ToResponse(),
			TotalSales: totals.TotalSales,
			CashSales:  totals.CashSales,
			Expenses:   expenses,
		})
	}
	return entries, nil
}
