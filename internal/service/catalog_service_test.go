package service

import (
	"errors"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newCatalogService(db *gorm.DB) CatalogService {
	return NewCatalogService(
		repository.NewProductRepo(db),
		repository.NewStockMovementRepo(db),
		db,
		newTestHub(),
	)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	svc := newCatalogService(db)
	user := uuid.New().String()

	first := &model.Product{Name: "Yerba 500g", SKU: "YER-500", SalePrice: mustDecimal(t, "2500")}
	if err := svc.CreateProduct(store.ID, first, user, "Ana"); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dup := &model.Product{Name: "Yerba 500g premium", SKU: "YER-500", SalePrice: mustDecimal(t, "3000")}
	if err := svc.CreateProduct(store.ID, dup, user, "Ana"); !errors.Is(err, ErrSKUExists) {
		t.Fatalf("expected ErrSKUExists, got %v", err)
	}

	// Same SKU in a different store is allowed.
	other := seedStore(t, db)
	elsewhere := &model.Product{Name: "Yerba 500g", SKU: "YER-500", SalePrice: mustDecimal(t, "2500")}
	if err := svc.CreateProduct(other.ID, elsewhere, user, "Ana"); err != nil {
		t.Fatalf("create in second store failed: %v", err)
	}
}

func TestUpdateProductNeverTouchesStock(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Flour", "800", 12)
	svc := newCatalogService(db)

	updated, err := svc.UpdateProduct(store.ID, product.ID, &UpdateProductRequest{
		Name:      "Flour 1kg",
		SalePrice: mustDecimal(t, "950"),
		MinStock:  3,
	}, uuid.New().String(), "Ana")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Flour 1kg" {
		t.Fatalf("name not updated: %s", updated.Name)
	}
	if updated.CurrentStock != 12 {
		t.Fatalf("update changed stock: %d", updated.CurrentStock)
	}
}

func TestAdjustStockDirections(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Rice", "600", 10)
	svc := newCatalogService(db)
	user := uuid.New().String()

	adjust := func(typ model.MovementType, qty int) (*model.Product, error) {
		return svc.AdjustStock(store.ID, &AdjustStockRequest{
			ProductID: product.ID.String(),
			Type:      typ,
			Quantity:  qty,
			Reason:    "test",
		}, user, "Ana")
	}

	if p, err := adjust(model.MovementIn, 5); err != nil || p.CurrentStock != 15 {
		t.Fatalf("IN: stock=%v err=%v", p, err)
	}
	if p, err := adjust(model.MovementOut, 3); err != nil || p.CurrentStock != 12 {
		t.Fatalf("OUT: stock=%v err=%v", p, err)
	}
	if p, err := adjust(model.MovementAdjustment, -2); err != nil || p.CurrentStock != 10 {
		t.Fatalf("ADJUSTMENT: stock=%v err=%v", p, err)
	}

	// OUT past zero hits the conditional guard.
	if _, err := adjust(model.MovementOut, 11); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	movements, err := svc.GetProductMovements(store.ID, product.ID, 50)
	if err != nil {
		t.Fatalf("movements failed: %v", err)
	}
	if len(movements) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(movements))
	}
}

func TestAdjustStockRejectsBadRequests(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Salt", "150", 10)
	svc := newCatalogService(db)
	user := uuid.New().String()

	if _, err := svc.AdjustStock(store.ID, &AdjustStockRequest{
		ProductID: product.ID.String(),
		Type:      model.MovementIn,
		Quantity:  -5,
	}, user, "Ana"); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity for negative IN, got %v", err)
	}

	if _, err := svc.AdjustStock(store.ID, &AdjustStockRequest{
		ProductID: uuid.New().String(),
		Type:      model.MovementIn,
		Quantity:  5,
	}, user, "Ana"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCatalogOperationsScopedToStore(t *testing.T) {
	db := newTestDB(t)
	mine := seedStore(t, db)
	other := seedStore(t, db)
	foreign := seedProduct(t, db, other.ID, "Vino", "5000", 6)
	svc := newCatalogService(db)
	user := uuid.New().String()

	if _, err := svc.UpdateProduct(mine.ID, foreign.ID, &UpdateProductRequest{
		Name:      "Vino barato",
		SalePrice: mustDecimal(t, "1"),
	}, user, "Ana"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound updating another store's product, got %v", err)
	}

	if _, err := svc.AdjustStock(mine.ID, &AdjustStockRequest{
		ProductID: foreign.ID.String(),
		Type:      model.MovementOut,
		Quantity:  6,
		Reason:    "shrinkage",
	}, user, "Ana"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound adjusting another store's product, got %v", err)
	}
	if got := reloadProduct(t, db, foreign.ID).CurrentStock; got != 6 {
		t.Fatalf("other store's stock changed: %d", got)
	}

	// Ledger reads carry the same scope.
	if _, err := svc.AdjustStock(other.ID, &AdjustStockRequest{
		ProductID: foreign.ID.String(),
		Type:      model.MovementIn,
		Quantity:  4,
		Reason:    "restock",
	}, user, "Ana"); err != nil {
		t.Fatalf("owner adjustment failed: %v", err)
	}
	movements, err := svc.GetProductMovements(mine.ID, foreign.ID, 50)
	if err != nil {
		t.Fatalf("movements failed: %v", err)
	}
	if len(movements) != 0 {
		t.Fatalf("expected no movements visible across stores, got %d", len(movements))
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	svc := NewExpenseService(repository.NewExpenseRepo(db), newTestHub())
	cashier := uuid.New()

	if _, err := svc.CreateExpense(store.ID, cashier, &CreateExpenseRequest{
		Category: "supplies",
		Amount:   mustDecimal(t, "0"),
	}); !errors.Is(err, ErrInvalidExpenseAmount) {
		t.Fatalf("expected ErrInvalidExpenseAmount, got %v", err)
	}

	expense, err := svc.CreateExpense(store.ID, cashier, &CreateExpenseRequest{
		Category:    "delivery",
		Amount:      mustDecimal(t, "350.75"),
		Description: "moto al proveedor",
	})
	if err != nil {
		t.Fatalf("create expense failed: %v", err)
	}
	if expense.ID == uuid.Nil {
		t.Fatal("expense not assigned an ID")
	}
}
