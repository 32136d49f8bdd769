package repository

import (
	"go-pos-ws/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uuid.UUID) (*model.Store, error)
	FindByName(name string) (*model.Store, error)
	FindAll() ([]model.Store, error)
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(store *model.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.First(&store, "id = ?", id).Error
	return &store, err
}

func (r *storeRepo) FindByName(name string) (*model.Store, error) {
	var store model.Store
	err := r.db.First(&store, "name = ?", name).Error
	return &store, err
}

func (r *storeRepo) FindAll() ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Find(&stores).Error
	return stores, err
}
