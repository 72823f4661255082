package repository

import (
	"context"

	"go-kasir-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	FindAll(ctx context.Context, storeID uuid.UUID) ([]model.Customer, error)
	FindByID(ctx context.Context, id, storeID uuid.UUID) (*model.Customer, error)
	ExistsInStore(tx *gorm.DB, id, storeID uuid.UUID) (bool, error)
	Update(ctx context.Context, customer *model.Customer) error
	Delete(tx *gorm.DB, id, storeID uuid.UUID) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(ctx context.Context, customer *model.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *customerRepo) FindAll(ctx context.Context, storeID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(ctx context.Context, id, storeID uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) ExistsInStore(tx *gorm.DB, id, storeID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.Customer{}).Where("id = ? AND store_id = ?", id, storeID).Count(&count).Error
	return count > 0, err
}

func (r *customerRepo) Update(ctx context.Context, customer *model.Customer) error {
	result := r.db.WithContext(ctx).Model(&model.Customer{}).
		Where("id = ? AND store_id = ?", customer.ID, customer.StoreID).
		Update("name", customer.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepo) Delete(tx *gorm.DB, id, storeID uuid.UUID) error {
	result := tx.Where("id = ? AND store_id = ?", id, storeID).Delete(&model.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
