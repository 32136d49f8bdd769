package repository

import (
	"time"

	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByIdempotencyKey(storeID uuid.UUID, key string) (*model.Sale, error)
	FindAllByStore(storeID uuid.UUID, from, to time.Time) ([]model.Sale, error)
	SessionTotals(sessionID uuid.UUID) (*SessionTotals, error)
	SalesByDay(storeID uuid.UUID, from, to time.Time) ([]DailySales, error)
	DayStats(storeID uuid.UUID, from, to time.Time) (*DayStats, error)
	CustomerSummaries(storeID uuid.UUID) ([]CustomerSummary, error)
}

// SessionTotals aggregates completed sales recorded against one cash session.
type SessionTotals struct {
	TotalSales decimal.Decimal `json:"total_sales"`
	CashSales  decimal.Decimal `json:"cash_sales"`
	SaleCount  int64           `json:"sale_count"`
}

// DailySales is one point of the sales-by-day chart series.
type DailySales struct {
	Date      string          `json:"date"`
	Total     decimal.Decimal `json:"total"`
	SaleCount int64           `json:"sale_count"`
}

// DayStats backs the dashboard overview.
type DayStats struct {
	Revenue   decimal.Decimal `json:"revenue"`
	CashTotal decimal.Decimal `json:"cash_total"`
	SaleCount int64           `json:"sale_count"`
}

// CustomerSummary aggregates a customer's completed purchases by phone.
type CustomerSummary struct {
	CustomerPhone string          `json:"customer_phone"`
	CustomerName  string          `json:"customer_name"`
	PurchaseCount int64           `json:"purchase_count"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LastPurchase  time.Time       `json:"last_purchase"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) FindByIdempotencyKey(storeID uuid.UUID, key string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").
		First(&sale, "store_id = ? AND idempotency_key = ?", storeID, key).Error
	return &sale, err
}

func (r *saleRepo) FindAllByStore(storeID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.Preload("Items").Where("store_id = ?", storeID)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	err := q.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SessionTotals(sessionID uuid.UUID) (*SessionTotals, error) {
	var totals SessionTotals

	base := r.db.Model(&model.Sale{}).
		Where("cash_session_id = ? AND status = ?", sessionID, model.SaleCompleted)

	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0)").Scan(&totals.TotalSales).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_method = ?", model.PaymentCash).
		Select("COALESCE(SUM(total), 0)").Scan(&totals.CashSales).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Count(&totals.SaleCount).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *saleRepo) SalesByDay(storeID uuid.UUID, from, to time.Time) ([]DailySales, error) {
	var results []DailySales

	rows, err := r.db.Model(&model.Sale{}).
		Select(`DATE(created_at) as date, COALESCE(SUM(total), 0) as total, COUNT(*) as sale_count`).
		Where("store_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			storeID, model.SaleCompleted, from, to).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailySales
		if err := rows.Scan(&data.Date, &data.Total, &data.SaleCount); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *saleRepo) DayStats(storeID uuid.UUID, from, to time.Time) (*DayStats, error) {
	var stats DayStats

	base := r.db.Model(&model.Sale{}).
		Where("store_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			storeID, model.SaleCompleted, from, to)

	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("payment_method = ?", model.PaymentCash).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.CashTotal).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Count(&stats.SaleCount).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *saleRepo) CustomerSummaries(storeID uuid.UUID) ([]CustomerSummary, error) {
	var sales []model.Sale
	err := r.db.
		Where("store_id = ? AND status = ? AND customer_phone <> ''",
			storeID, model.SaleCompleted).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	// Aggregate per phone; sales are ordered newest-first so the first row
	// seen per phone carries the latest name and purchase date.
	byPhone := make(map[string]*CustomerSummary)
	var order []string
	for _, sale := range sales {
		summary, ok := byPhone[sale.CustomerPhone]
		if !ok {
			summary = &CustomerSummary{
				CustomerPhone: sale.CustomerPhone,
				CustomerName:  sale.CustomerName,
				LastPurchase:  sale.CreatedAt,
			}
			byPhone[sale.CustomerPhone] = summary
			order = append(order, sale.CustomerPhone)
		}
		summary.PurchaseCount++
		summary.TotalSpent = summary.TotalSpent.Add(sale.Total)
	}

	results := make([]CustomerSummary, 0, len(order))
	for _, phone := range order {
		results = append(results, *byPhone[phone])
	}
	return results, nil
}
