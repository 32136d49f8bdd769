package service

import (
	"fmt"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Each test gets its own named in-memory database. The single connection
// keeps every gorm session on the same sqlite instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newTestHub() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()
	return hub
}

func seedStore(t *testing.T, db *gorm.DB) *model.Store {
	t.Helper()
	store := &model.Store{Name: "Test Store", IsActive: true}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name, price string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		StoreID:      storeID,
		Name:         name,
		SalePrice:    mustDecimal(t, price),
		CurrentStock: stock,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return product
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func reloadProduct(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Product {
	t.Helper()
	var product model.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	return &product
}

func newCheckoutService(db *gorm.DB) CheckoutService {
	return NewCheckoutService(
		repository.NewProductRepo(db),
		repository.NewSaleRepo(db),
		repository.NewStockMovementRepo(db),
		repository.NewCashSessionRepo(db),
		db,
		newTestHub(),
	)
}

func newSessionService(db *gorm.DB) CashSessionService {
	return NewCashSessionService(
		repository.NewCashSessionRepo(db),
		repository.NewSaleRepo(db),
		repository.NewExpenseRepo(db),
		newTestHub(),
	)
}
