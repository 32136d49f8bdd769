package service

import (
	"errors"
	"testing"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestOpenSessionRejectsSecondOpen(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	svc := newSessionService(db)
	cashier := uuid.New()

	session, err := svc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "1000")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if session.Status != model.SessionOpen {
		t.Fatalf("expected status OPEN, got %s", session.Status)
	}

	if _, err := svc.Open(store.ID, uuid.New(), &OpenSessionRequest{OpeningAmount: mustDecimal(t, "500")}); !errors.Is(err, ErrSessionAlreadyOpen) {
		t.Fatalf("expected ErrSessionAlreadyOpen, got %v", err)
	}
	var count int64
	db.Model(&model.CashSession{}).Where("store_id = ?", store.ID).Count(&count)
	if count != 1 {
		t.Fatalf("second open created a row: %d sessions", count)
	}

	// A different store is unaffected.
	other := seedStore(t, db)
	if _, err := svc.Open(other.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "0")}); err != nil {
		t.Fatalf("open for second store failed: %v", err)
	}
}

func TestOpenSessionRejectsNegativeFloat(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	svc := newSessionService(db)

	if _, err := svc.Open(store.ID, uuid.New(), &OpenSessionRequest{OpeningAmount: mustDecimal(t, "-50")}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

// Full drawer math over one shift:
//
//	opening 1000 + cash sales 3500 - expenses 200 = expected 4300
//
// Card sales count toward revenue but never toward the drawer.
func TestCloseSessionDrawerMath(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Empanada", "500", 100)
	sessionSvc := newSessionService(db)
	checkoutSvc := newCheckoutService(db)
	expenseSvc := NewExpenseService(repository.NewExpenseRepo(db), newTestHub())
	cashier := uuid.New()

	session, err := sessionSvc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "1000")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	sell := func(qty int64, method model.PaymentMethod) {
		t.Helper()
		_, err := checkoutSvc.Checkout(store.ID, cashier, "Ana", &CheckoutRequest{
			Cart: []CartLine{
				{ProductID: product.ID.String(), Name: "Empanada", Quantity: int(qty), UnitPrice: mustDecimal(t, "500")},
			},
			Total:         decimal.NewFromInt(qty * 500),
			PaymentMethod: method,
			CashSessionID: session.ID.String(),
		})
		if err != nil {
			t.Fatalf("sale failed: %v", err)
		}
	}
	sell(4, model.PaymentCash) // 2000 cash
	sell(3, model.PaymentCash) // 1500 cash
	sell(1, model.PaymentCard) // 500 card, not in the drawer

	if _, err := expenseSvc.CreateExpense(store.ID, cashier, &CreateExpenseRequest{
		Category: "supplies",
		Amount:   mustDecimal(t, "200"),
	}); err != nil {
		t.Fatalf("expense failed: %v", err)
	}

	result, err := sessionSvc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{
		CountedAmount: mustDecimal(t, "4250"),
	})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if !result.TotalSales.Equal(mustDecimal(t, "4000")) {
		t.Fatalf("expected total sales 4000, got %s", result.TotalSales)
	}
	if !result.CashSales.Equal(mustDecimal(t, "3500")) {
		t.Fatalf("expected cash sales 3500, got %s", result.CashSales)
	}
	if !result.Expenses.Equal(mustDecimal(t, "200")) {
		t.Fatalf("expected expenses 200, got %s", result.Expenses)
	}
	if !result.ExpectedAmount.Equal(mustDecimal(t, "4300")) {
		t.Fatalf("expected drawer 4300, got %s", result.ExpectedAmount)
	}
	// Short drawer: reported, never rejected.
	if !result.Variance.Equal(mustDecimal(t, "-50")) {
		t.Fatalf("expected variance -50, got %s", result.Variance)
	}
	if result.Session.Status != model.SessionClosed {
		t.Fatalf("expected status CLOSED, got %s", result.Session.Status)
	}
}

func TestCloseSessionExactCount(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	sessionSvc := newSessionService(db)
	cashier := uuid.New()

	session, err := sessionSvc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "750")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	// No sales, no expenses: the drawer should hold exactly the float.
	result, err := sessionSvc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{
		CountedAmount: mustDecimal(t, "750"),
	})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !result.Variance.IsZero() {
		t.Fatalf("expected zero variance, got %s", result.Variance)
	}
}

func TestCloseSessionTwiceFails(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	svc := newSessionService(db)
	cashier := uuid.New()

	session, err := svc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "100")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := svc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{CountedAmount: mustDecimal(t, "100")}); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if _, err := svc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{CountedAmount: mustDecimal(t, "100")}); !errors.Is(err, ErrSessionAlreadyClosed) {
		t.Fatalf("expected ErrSessionAlreadyClosed, got %v", err)
	}

	// After close a new session can open for the same store.
	if _, err := svc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "200")}); err != nil {
		t.Fatalf("reopen after close failed: %v", err)
	}
}

func TestCloseSessionUnknownOrForeign(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	other := seedStore(t, db)
	svc := newSessionService(db)
	cashier := uuid.New()

	if _, err := svc.Close(store.ID, uuid.New(), cashier.String(), &CloseSessionRequest{CountedAmount: mustDecimal(t, "0")}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	session, err := svc.Open(other.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "100")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	// Session belongs to a different store.
	if _, err := svc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{CountedAmount: mustDecimal(t, "100")}); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for foreign session, got %v", err)
	}
}

func TestCurrentSession(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	svc := newSessionService(db)
	cashier := uuid.New()

	if _, err := svc.Current(store.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound with no open session, got %v", err)
	}

	opened, err := svc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "300")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	current, err := svc.Current(store.ID)
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if current.ID != opened.ID {
		t.Fatalf("current returned wrong session: %s vs %s", current.ID, opened.ID)
	}
}

func TestSessionHistoryCarriesAggregates(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Pizza", "1000", 50)
	sessionSvc := newSessionService(db)
	checkoutSvc := newCheckoutService(db)
	cashier := uuid.New()

	session, err := sessionSvc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "500")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := checkoutSvc.Checkout(store.ID, cashier, "Ana", &CheckoutRequest{
		Cart: []CartLine{
			{ProductID: product.ID.String(), Name: "Pizza", Quantity: 2, UnitPrice: mustDecimal(t, "1000")},
		},
		Total:         mustDecimal(t, "2000"),
		PaymentMethod: model.PaymentCash,
		CashSessionID: session.ID.String(),
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	if _, err := sessionSvc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{CountedAmount: mustDecimal(t, "2500")}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	entries, err := sessionSvc.History(store.ID, 10)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if !entries[0].CashSales.Equal(mustDecimal(t, "2000")) {
		t.Fatalf("expected cash sales 2000, got %s", entries[0].CashSales)
	}
}

// Voided sales drop out of the session totals, so the drawer expectation
// reflects only money that actually stayed in the till.
func TestCloseSessionIgnoresVoidedSales(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Water", "100", 50)
	sessionSvc := newSessionService(db)
	checkoutSvc := newCheckoutService(db)
	cashier := uuid.New()

	session, err := sessionSvc.Open(store.ID, cashier, &OpenSessionRequest{OpeningAmount: mustDecimal(t, "0")})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := checkoutSvc.Checkout(store.ID, cashier, "Ana", &CheckoutRequest{
		Cart: []CartLine{
			{ProductID: product.ID.String(), Name: "Water", Quantity: 3, UnitPrice: mustDecimal(t, "100")},
		},
		Total:         mustDecimal(t, "300"),
		PaymentMethod: model.PaymentCash,
		CashSessionID: session.ID.String(),
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	refunded, err := checkoutSvc.Checkout(store.ID, cashier, "Ana", &CheckoutRequest{
		Cart: []CartLine{
			{ProductID: product.ID.String(), Name: "Water", Quantity: 5, UnitPrice: mustDecimal(t, "100")},
		},
		Total:         mustDecimal(t, "500"),
		PaymentMethod: model.PaymentCash,
		CashSessionID: session.ID.String(),
	})
	if err != nil {
		t.Fatalf("sale failed: %v", err)
	}
	if _, err := checkoutSvc.VoidSale(store.ID, refunded.SaleID, cashier.String(), "Ana"); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	result, err := sessionSvc.Close(store.ID, session.ID, cashier.String(), &CloseSessionRequest{
		CountedAmount: mustDecimal(t, "300"),
	})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !result.ExpectedAmount.Equal(mustDecimal(t, "300")) {
		t.Fatalf("expected drawer 300 after void, got %s", result.ExpectedAmount)
	}
	if !result.Variance.IsZero() {
		t.Fatalf("expected zero variance, got %s", result.Variance)
	}
}
