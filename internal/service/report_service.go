package service

import (
	"time"

	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportService interface {
	GetDashboardStats(storeID uuid.UUID) (*DashboardStats, error)
	GetSalesByDay(storeID uuid.UUID, days int) ([]repository.DailySales, error)
}

// DashboardStats is the store overview for the current business day.
type DashboardStats struct {
	Revenue       decimal.Decimal `json:"revenue"`
	CashTotal     decimal.Decimal `json:"cash_total"`
	NonCashTotal  decimal.Decimal `json:"non_cash_total"`
	SaleCount     int64           `json:"sale_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	LowStockCount int64           `json:"low_stock_count"`
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

func NewReportService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{saleRepo: saleRepo, productRepo: productRepo}
}

func (s *reportService) GetDashboardStats(storeID uuid.UUID) (*DashboardStats, error) {
	dayStart, dayEnd := businessDayBounds(time.Now())

	day, err := s.saleRepo.DayStats(storeID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.CountLowStock(storeID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Revenue:       day.Revenue,
		CashTotal:     day.CashTotal,
		NonCashTotal:  day.Revenue.Sub(day.CashTotal),
		SaleCount:     day.SaleCount,
		LowStockCount: lowStock,
	}
	if day.SaleCount > 0 {
		stats.AverageTicket = day.Revenue.Div(decimal.NewFromInt(day.SaleCount)).Round(2)
	}
	return stats, nil
}

// GetSalesByDay returns one bucket per business day, today included, so the
// buckets line up with the civil days the dashboard stats use.
func (s *reportService) GetSalesByDay(storeID uuid.UUID, days int) ([]repository.DailySales, error) {
	dayStart, dayEnd := businessDayBounds(time.Now())
	startDate := dayStart.AddDate(0, 0, -(days - 1))
	return s.saleRepo.SalesByDay(storeID, startDate, dayEnd)
}
