package service

import (
	"testing"
	"time"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Alfajor", "450", 100)

	// One product sitting at its threshold counts as low stock.
	low := seedProduct(t, db, store.ID, "Dulce", "900", 2)
	low.MinStock = 2
	if err := db.Save(low).Error; err != nil {
		t.Fatalf("failed to set min stock: %v", err)
	}

	checkoutSvc := newCheckoutService(db)
	reportSvc := NewReportService(repository.NewSaleRepo(db), repository.NewProductRepo(db))
	cashier := uuid.New()

	sell := func(qty int64, method model.PaymentMethod) {
		t.Helper()
		_, err := checkoutSvc.Checkout(store.ID, cashier, "Ana", &CheckoutRequest{
			Cart: []CartLine{
				{ProductID: product.ID.String(), Name: "Alfajor", Quantity: int(qty), UnitPrice: mustDecimal(t, "450")},
			},
			Total:         decimal.NewFromInt(qty * 450),
			PaymentMethod: method,
		})
		if err != nil {
			t.Fatalf("sale failed: %v", err)
		}
	}
	sell(2, model.PaymentCash)     // 900
	sell(1, model.PaymentTransfer) // 450

	stats, err := reportSvc.GetDashboardStats(store.ID)
	if err != nil {
		t.Fatalf("dashboard stats failed: %v", err)
	}

	if !stats.Revenue.Equal(mustDecimal(t, "1350")) {
		t.Fatalf("expected revenue 1350, got %s", stats.Revenue)
	}
	if !stats.CashTotal.Equal(mustDecimal(t, "900")) {
		t.Fatalf("expected cash total 900, got %s", stats.CashTotal)
	}
	if !stats.NonCashTotal.Equal(mustDecimal(t, "450")) {
		t.Fatalf("expected non-cash total 450, got %s", stats.NonCashTotal)
	}
	if stats.SaleCount != 2 {
		t.Fatalf("expected 2 sales, got %d", stats.SaleCount)
	}
	if !stats.AverageTicket.Equal(mustDecimal(t, "675")) {
		t.Fatalf("expected average ticket 675, got %s", stats.AverageTicket)
	}
	if stats.LowStockCount != 1 {
		t.Fatalf("expected 1 low stock product, got %d", stats.LowStockCount)
	}
}

func TestDashboardStatsEmptyStore(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	reportSvc := NewReportService(repository.NewSaleRepo(db), repository.NewProductRepo(db))

	stats, err := reportSvc.GetDashboardStats(store.ID)
	if err != nil {
		t.Fatalf("dashboard stats failed: %v", err)
	}
	if !stats.Revenue.IsZero() || stats.SaleCount != 0 {
		t.Fatalf("expected empty stats, got revenue=%s count=%d", stats.Revenue, stats.SaleCount)
	}
	if !stats.AverageTicket.IsZero() {
		t.Fatalf("average ticket should be zero with no sales, got %s", stats.AverageTicket)
	}
}

func TestSalesByDaySeries(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Pan", "300", 100)
	checkoutSvc := newCheckoutService(db)
	reportSvc := NewReportService(repository.NewSaleRepo(db), repository.NewProductRepo(db))
	cashier := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := checkoutSvc.Checkout(store.ID, cashier, "Ana", &CheckoutRequest{
			Cart: []CartLine{
				{ProductID: product.ID.String(), Name: "Pan", Quantity: 1, UnitPrice: mustDecimal(t, "300")},
			},
			Total:         mustDecimal(t, "300"),
			PaymentMethod: model.PaymentCash,
		}); err != nil {
			t.Fatalf("sale failed: %v", err)
		}
	}

	// A sale older than the window stays out of the series.
	stale := &model.Sale{
		StoreID:       store.ID,
		CashierID:     cashier,
		Total:         mustDecimal(t, "300"),
		PaymentMethod: model.PaymentCash,
		Status:        model.SaleCompleted,
	}
	stale.CreatedAt = time.Now().AddDate(0, 0, -10)
	if err := db.Create(stale).Error; err != nil {
		t.Fatalf("failed to seed old sale: %v", err)
	}

	series, err := reportSvc.GetSalesByDay(store.ID, 7)
	if err != nil {
		t.Fatalf("sales by day failed: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected a single day bucket, got %d", len(series))
	}
	if series[0].SaleCount != 3 {
		t.Fatalf("expected 3 sales in bucket, got %d", series[0].SaleCount)
	}
	if !series[0].Total.Equal(mustDecimal(t, "900")) {
		t.Fatalf("expected bucket total 900, got %s", series[0].Total)
	}
}
