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
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Error definitions
var (
	ErrValidation        = errors.New("validation failed")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrInvalidTotal      = errors.New("total must be greater than zero")
	ErrTotalMismatch     = errors.New("declared total does not match cart lines")
	ErrInvalidPayment    = errors.New("unknown payment method")
	ErrInvalidQuantity   = errors.New("line quantity must be at least 1")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrSaleAlreadyVoided = errors.New("sale already voided")
	ErrSessionNotOpen    = errors.New("cash session is not open for this store")
)

// Declared totals may come from float math on the client; anything within a
// cent of the decimal line sum is accepted.
var totalTolerance = decimal.New(1, -2)

type CheckoutService interface {
	Checkout(storeID, cashierID uuid.UUID, cashierName string, req *CheckoutRequest) (*CheckoutResult, error)
	VoidSale(storeID, saleID uuid.UUID, cashierID, cashierName string) (*model.Sale, error)
	GetSale(storeID, saleID uuid.UUID) (*model.Sale, error)
	GetSales(storeID uuid.UUID, from, to time.Time) ([]model.Sale, error)
	GetCustomerSummaries(storeID uuid.UUID) ([]repository.CustomerSummary, error)
}

type CartLine struct {
	ProductID string          `json:"product_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CheckoutRequest struct {
	Cart          []CartLine          `json:"cart" validate:"required,min=1,dive"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"required"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CashSessionID string              `json:"cash_session_id"`
	// Client-generated, stable across retries of the same submission.
	IdempotencyKey string `json:"idempotency_key"`
}

type CheckoutResult struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	Total     decimal.Decimal `json:"total"`
	Duplicate bool            `json:"duplicate"`
}

type checkoutService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	movementRepo repository.StockMovementRepository
	sessionRepo  repository.CashSessionRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCheckoutService(
	pRepo repository.ProductRepository,
	sRepo repository.SaleRepository,
	mRepo repository.StockMovementRepository,
	sessRepo repository.CashSessionRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CheckoutService {
	return &checkoutService{
		productRepo:  pRepo,
		saleRepo:     sRepo,
		movementRepo: mRepo,
		sessionRepo:  sessRepo,
		db:           db,
		wsHub:        hub,
	}
}

// validateCheckout rejects bad input before any side effect.
func validateCheckout(req *CheckoutRequest) error {
	if len(req.Cart) == 0 {
		return ErrCartEmpty
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return ErrInvalidPayment
	}
	if !req.Total.IsPositive() {
		return ErrInvalidTotal
	}

	sum := decimal.Zero
	for _, line := range req.Cart {
		if line.Quantity < 1 {
			return ErrInvalidQuantity
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: negative unit price for product %s", ErrValidation, line.ProductID)
		}
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	if req.Total.Sub(sum).Abs().GreaterThan(totalTolerance) {
		return ErrTotalMismatch
	}
	return nil
}

// Checkout converts a validated cart into a sale, its line items, the SALE
// stock movements and the product decrements — all inside one transaction.
// Either everything commits or nothing does.
func (s *checkoutService) Checkout(storeID, cashierID uuid.UUID, cashierName string, req *CheckoutRequest) (*CheckoutResult, error) {
	// 1. Validate input
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	// 2. Idempotency short-circuit: a retried submission returns the sale
	// created by the first attempt, with no new side effects.
	if req.IdempotencyKey != "" {
		if existing, err := s.saleRepo.FindByIdempotencyKey(storeID, req.IdempotencyKey); err == nil {
			return &CheckoutResult{SaleID: existing.ID, Total: existing.Total, Duplicate: true}, nil
		}
	}

	// 3. Resolve the cash session reference, if any
	var sessionID *uuid.UUID
	if req.CashSessionID != "" {
		parsed, err := uuid.Parse(req.CashSessionID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid cash session ID format", ErrValidation)
		}
		session, err := s.sessionRepo.FindByID(parsed)
		if err != nil || session.Status != model.SessionOpen || session.StoreID != storeID {
			return nil, ErrSessionNotOpen
		}
		sessionID = &parsed
	}

	// 4. Pre-check each line against the product's last-known stock. The
	// conditional decrement at commit time stays authoritative; this only
	// rejects hopeless carts before any row is written. The store-scoped
	// lookup also refuses another store's product ids outright.
	productIDs := make([]uuid.UUID, len(req.Cart))
	for i, line := range req.Cart {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product ID %s", ErrValidation, line.ProductID)
		}
		product, err := s.productRepo.FindByID(storeID, productID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		if product.CurrentStock < line.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		productIDs[i] = productID
	}

	// 5. Atomic unit of work
	sale := &model.Sale{
		StoreID:        storeID,
		CashierID:      cashierID,
		Total:          req.Total,
		PaymentMethod:  req.PaymentMethod,
		Status:         model.SaleCompleted,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CashSessionID:  sessionID,
		IdempotencyKey: req.IdempotencyKey,
	}
	sale.CreatedBy = cashierID.String()
	sale.UpdatedBy = cashierID.String()

	for i, line := range req.Cart {
		qty := decimal.NewFromInt(int64(line.Quantity))
		item := model.SaleItem{
			ProductID: productIDs[i],
			Name:      line.Name, // snapshot, never re-read from the live product
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.UnitPrice.Mul(qty),
		}
		item.CreatedBy = cashierID.String()
		sale.Items = append(sale.Items, item)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// A. Sale + items. The partial unique index on (store_id,
		// idempotency_key) catches a concurrent duplicate the fast-path
		// lookup missed.
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		// B. Conditional decrement per line. If concurrent sales depleted
		// the stock since the cart was built, the guard matches zero rows
		// and the whole checkout rolls back instead of overselling.
		for i, item := range sale.Items {
			affected, err := s.productRepo.AdjustStock(tx, storeID, item.ProductID, -item.Quantity, cashierID.String())
			if err != nil {
				return err
			}
			if affected == 0 {
				var product model.Product
				if err := tx.First(&product, "id = ? AND store_id = ?", item.ProductID, storeID).Error; err != nil {
					return fmt.Errorf("%w: %s", ErrProductNotFound, req.Cart[i].ProductID)
				}
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			movement := &model.StockMovement{
				StoreID:     storeID,
				ProductID:   item.ProductID,
				Type:        model.MovementSale,
				Quantity:    -item.Quantity,
				Description: fmt.Sprintf("Sale of %d x %s", item.Quantity, item.Name),
				ReferenceID: &sale.ID,
			}
			movement.CreatedBy = cashierID.String()
			if err := s.movementRepo.Create(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		// Lost the idempotency race: another request with the same key
		// committed first. Return its sale, this attempt had no effect.
		if errors.Is(err, gorm.ErrDuplicatedKey) && req.IdempotencyKey != "" {
			if existing, lookupErr := s.saleRepo.FindByIdempotencyKey(storeID, req.IdempotencyKey); lookupErr == nil {
				return &CheckoutResult{SaleID: existing.ID, Total: existing.Total, Duplicate: true}, nil
			}
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sale_id": sale.ID,
		"store":   storeID,
		"total":   sale.Total,
		"method":  sale.PaymentMethod,
	}).Info("checkout completed")

	go s.wsHub.BroadcastEvent("sale_completed", map[string]interface{}{
		"sale_id":        sale.ID,
		"store_id":       storeID,
		"total":          sale.Total,
		"payment_method": sale.PaymentMethod,
		"item_count":     len(sale.Items),
		"cashier":        cashierName,
		"message":        fmt.Sprintf("%s completed a sale of %s", cashierName, sale.Total.StringFixed(2)),
	})

	return &CheckoutResult{SaleID: sale.ID, Total: sale.Total}, nil
}

// VoidSale reverses a completed sale: offsetting VOID movements, stock
// restored, status flipped to CANCELLED. The status transition is one-way;
// a sale cannot be voided twice.
func (s *checkoutService) VoidSale(storeID, saleID uuid.UUID, cashierID, cashierName string) (*model.Sale, error) {
	var sale model.Sale

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&sale, "id = ? AND store_id = ?", saleID, storeID).Error; err != nil {
			return ErrSaleNotFound
		}

		// State-machine guard: only COMPLETED -> CANCELLED matches.
		now := time.Now()
		res := tx.Model(&model.Sale{}).
			Where("id = ? AND status = ?", saleID, model.SaleCompleted).
			Updates(map[string]interface{}{
				"status":     model.SaleCancelled,
				"voided_at":  now,
				"updated_by": cashierID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSaleAlreadyVoided
		}

		for _, item := range sale.Items {
			affected, err := s.productRepo.AdjustStock(tx, storeID, item.ProductID, item.Quantity, cashierID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
			}

			movement := &model.StockMovement{
				StoreID:     storeID,
				ProductID:   item.ProductID,
				Type:        model.MovementVoid,
				Quantity:    item.Quantity,
				Description: fmt.Sprintf("Void of %d x %s", item.Quantity, item.Name),
				ReferenceID: &sale.ID,
			}
			movement.CreatedBy = cashierID
			if err := s.movementRepo.Create(tx, movement); err != nil {
				return err
			}
		}

		sale.Status = model.SaleCancelled
		sale.VoidedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"sale_id": saleID, "store": storeID}).Info("sale voided")

	go s.wsHub.BroadcastEvent("sale_voided", map[string]interface{}{
		"sale_id":  saleID,
		"store_id": storeID,
		"cashier":  cashierName,
		"message":  fmt.Sprintf("%s voided sale %s", cashierName, saleID),
	})

	return &sale, nil
}

func (s *checkoutService) GetSale(storeID, saleID uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(saleID)
	if err != nil || sale.StoreID != storeID {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func (s *checkoutService) GetSales(storeID uuid.UUID, from, to time.Time) ([]model.Sale, error) {
	return s.saleRepo.FindAllByStore(storeID, from, to)
}

func (s *checkoutService) GetCustomerSummaries(storeID uuid.UUID) ([]repository.CustomerSummary, error) {
	return s.saleRepo.CustomerSummaries(storeID)
}
