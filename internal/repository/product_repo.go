package repository

import (
	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAllByStore(storeID uuid.UUID) ([]model.Product, error)
	FindByID(storeID, id uuid.UUID) (*model.Product, error)
	FindBySKU(storeID uuid.UUID, sku string) (*model.Product, error)
	Update(product *model.Product) error
	AdjustStock(tx *gorm.DB, storeID, id uuid.UUID, delta int, updatedBy string) (int64, error)
	CountLowStock(storeID uuid.UUID) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAllByStore(storeID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("store_id = ?", storeID).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(storeID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ? AND store_id = ?", id, storeID).Error
	return &product, err
}

func (r *productRepo) FindBySKU(storeID uuid.UUID, sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "store_id = ? AND sku = ?", storeID, sku).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// AdjustStock applies a signed delta inside the caller's transaction. The
// WHERE guard makes the decrement conditional: two checkouts racing over the
// last unit cannot both match, so stock never goes negative, and the store
// scope keeps one tenant from moving another tenant's stock. Returns the
// number of rows updated; 0 means the product is missing from the store or
// the delta would oversell.
func (r *productRepo) AdjustStock(tx *gorm.DB, storeID, id uuid.UUID, delta int, updatedBy string) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND store_id = ? AND current_stock + ? >= 0", id, storeID, delta).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"updated_by":    updatedBy,
		})
	return res.RowsAffected, res.Error
}

func (r *productRepo) CountLowStock(storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("store_id = ? AND current_stock <= min_stock", storeID).
		Count(&count).Error
	return count, err
}
