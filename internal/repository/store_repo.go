package repository

import (
	"context"

	"go-kasir-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(tx *gorm.DB, store *model.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error)
	UpdateName(tx *gorm.DB, id uuid.UUID, name string) error
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(tx *gorm.DB, store *model.Store) error {
	return tx.Create(store).Error
}

func (r *storeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) UpdateName(tx *gorm.DB, id uuid.UUID, name string) error {
	result := tx.Model(&model.Store{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
