package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(expense *model.Expense) error
	FindAllByStore(storeID uuid.UUID, from, to time.Time) ([]model.Expense, error)
	SumByStoreBetween(storeID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(expense *model.Expense) error {
	return r.db.Create(expense).Error
}

func (r *expenseRepo) FindAllByStore(storeID uuid.UUID, from, to time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	q := r.db.Where("store_id = ?", storeID)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	err := q.Order("created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) SumByStoreBetween(storeID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.Expense{}).
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
