package service

import (
	"errors"
	"fmt"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidExpenseAmount = errors.New("expense amount must be greater than zero")

type ExpenseService interface {
	CreateExpense(storeID, cashierID uuid.UUID, req *CreateExpenseRequest) (*model.Expense, error)
	GetExpenses(storeID uuid.UUID, from, to time.Time) ([]model.Expense, error)
}

type CreateExpenseRequest struct {
	Category    string          `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
	wsHub       *ws.Hub
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, hub *ws.Hub) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, wsHub: hub}
}

func (s *expenseService) CreateExpense(storeID, cashierID uuid.UUID, req *CreateExpenseRequest) (*model.Expense, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidExpenseAmount
	}

	expense := &model.Expense{
		StoreID:     storeID,
		CashierID:   cashierID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	expense.CreatedBy = cashierID.String()
	expense.UpdatedBy = cashierID.String()

	if err := s.expenseRepo.Create(expense); err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent("expense_created", map[string]interface{}{
		"expense_id": expense.ID,
		"store_id":   storeID,
		"category":   expense.Category,
		"amount":     expense.Amount,
	})

	return expense, nil
}

func (s *expenseService) GetExpenses(storeID uuid.UUID, from, to time.Time) ([]model.Expense, error) {
	return s.expenseRepo.FindAllByStore(storeID, from, to)
}
