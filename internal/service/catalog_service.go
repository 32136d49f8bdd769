package service

import (
	"errors"
	"fmt"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSKUExists         = errors.New("SKU already exists for this store")
	ErrInvalidAdjustment = errors.New("adjustment quantity cannot be zero")
)

type CatalogService interface {
	CreateProduct(storeID uuid.UUID, req *model.Product, userID, userName string) error
	UpdateProduct(storeID, id uuid.UUID, req *UpdateProductRequest, userID, userName string) (*model.Product, error)
	AdjustStock(storeID uuid.UUID, req *AdjustStockRequest, userID, userName string) (*model.Product, error)
	GetProducts(storeID uuid.UUID) ([]model.Product, error)
	GetProductMovements(storeID, productID uuid.UUID, limit int) ([]model.StockMovement, error)
	GetStoreMovements(storeID uuid.UUID, limit int) ([]model.StockMovement, error)
}

type UpdateProductRequest struct {
	Name      string          `json:"name" validate:"required"`
	SKU       string          `json:"sku"`
	Category  string          `json:"category"`
	SalePrice decimal.Decimal `json:"sale_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	MinStock  int             `json:"min_stock"`
}

// AdjustStockRequest covers manual stock changes. IN and OUT take a positive
// quantity; ADJUSTMENT takes a signed correction delta.
type AdjustStockRequest struct {
	ProductID string             `json:"product_id" validate:"required"`
	Type      model.MovementType `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  int                `json:"quantity" validate:"required"`
	Reason    string             `json:"reason"`
}

type catalogService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, mRepo repository.StockMovementRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateProduct(storeID uuid.UUID, req *model.Product, userID, userName string) error {
	req.StoreID = storeID

	// 1. Struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}
	if req.SalePrice.IsNegative() || req.CostPrice.IsNegative() {
		return fmt.Errorf("%w: prices cannot be negative", ErrValidation)
	}
	if req.CurrentStock < 0 {
		return fmt.Errorf("%w: initial stock cannot be negative", ErrValidation)
	}

	// 2. SKU duplicate check per store
	if req.SKU != "" {
		existing, _ := s.productRepo.FindBySKU(storeID, req.SKU)
		if existing != nil && existing.ID != uuid.Nil {
			return ErrSKUExists
		}
	}

	// 3. Audit fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	if uid, err := uuid.Parse(userID); err == nil {
		req.CreatedByUserID = &uid
		req.UpdatedByUserID = &uid
	}

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "product_created",
		"product": map[string]interface{}{
			"id":         req.ID,
			"sku":        req.SKU,
			"name":       req.Name,
			"stock":      req.CurrentStock,
			"sale_price": req.SalePrice,
		},
		"message": fmt.Sprintf("%s created product '%s'", userName, req.Name),
	})

	return nil
}

// UpdateProduct changes catalog fields only. Stock is never written here:
// every stock change goes through AdjustStock or checkout so the movement
// ledger stays complete.
func (s *catalogService) UpdateProduct(storeID, id uuid.UUID, req *UpdateProductRequest, userID, userName string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}
	if req.SalePrice.IsNegative() || req.CostPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices cannot be negative", ErrValidation)
	}

	existing, err := s.productRepo.FindByID(storeID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	if req.SKU != "" && req.SKU != existing.SKU {
		dup, _ := s.productRepo.FindBySKU(storeID, req.SKU)
		if dup != nil && dup.ID != uuid.Nil {
			return nil, ErrSKUExists
		}
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.Category = req.Category
	existing.SalePrice = req.SalePrice
	existing.CostPrice = req.CostPrice
	existing.MinStock = req.MinStock
	existing.UpdatedBy = userID
	if uid, err := uuid.Parse(userID); err == nil {
		existing.UpdatedByUserID = &uid
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "product_updated",
		"product": map[string]interface{}{
			"id":         existing.ID,
			"sku":        existing.SKU,
			"name":       existing.Name,
			"sale_price": existing.SalePrice,
		},
		"message": fmt.Sprintf("%s updated product '%s'", userName, existing.Name),
	})

	return existing, nil
}

// AdjustStock applies a manual stock change as an atomic delta plus its
// ledger row, the same shape checkout uses.
func (s *catalogService) AdjustStock(storeID uuid.UUID, req *AdjustStockRequest, userID, userName string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, firstErr.FailedField, firstErr.Tag)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid product ID format", ErrValidation)
	}

	var delta int
	switch req.Type {
	case model.MovementIn:
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		delta = req.Quantity
	case model.MovementOut:
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		delta = -req.Quantity
	case model.MovementAdjustment:
		if req.Quantity == 0 {
			return nil, ErrInvalidAdjustment
		}
		delta = req.Quantity
	default:
		return nil, fmt.Errorf("%w: movement type must be IN, OUT or ADJUSTMENT", ErrValidation)
	}

	var updated *model.Product
	err = s.db.Transaction(func(tx *gorm.DB) error {
		affected, err := s.productRepo.AdjustStock(tx, storeID, productID, delta, userID)
		if err != nil {
			return err
		}
		if affected == 0 {
			var product model.Product
			if err := tx.First(&product, "id = ? AND store_id = ?", productID, storeID).Error; err != nil {
				return fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductID)
			}
			return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}

		movement := &model.StockMovement{
			StoreID:     storeID,
			ProductID:   productID,
			Type:        req.Type,
			Quantity:    delta,
			Description: req.Reason,
		}
		movement.CreatedBy = userID
		if err := s.movementRepo.Create(tx, movement); err != nil {
			return err
		}

		var product model.Product
		if err := tx.First(&product, "id = ? AND store_id = ?", productID, storeID).Error; err != nil {
			return err
		}
		updated = &product
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "stock_adjusted",
		"product": map[string]interface{}{
			"id":        updated.ID,
			"name":      updated.Name,
			"new_stock": updated.CurrentStock,
		},
		"adjustment": map[string]interface{}{
			"type":     req.Type,
			"quantity": delta,
			"reason":   req.Reason,
		},
		"message": fmt.Sprintf("%s adjusted stock of '%s' by %+d", userName, updated.Name, delta),
	})

	return updated, nil
}

func (s *catalogService) GetProducts(storeID uuid.UUID) ([]model.Product, error) {
	return s.productRepo.FindAllByStore(storeID)
}

func (s *catalogService) GetProductMovements(storeID, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	return s.movementRepo.FindByProduct(storeID, productID, limit)
}

func (s *catalogService) GetStoreMovements(storeID uuid.UUID, limit int) ([]model.StockMovement, error) {
	return s.movementRepo.FindByStore(storeID, limit)
}
