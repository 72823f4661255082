package repository

import (
	"context"
	"time"

	"go-kasir-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleFilter narrows sale listings. Start is inclusive, End exclusive.
type SaleFilter struct {
	Start      *time.Time
	End        *time.Time
	CustomerID *uuid.UUID
}

type TransactionRepository interface {
	Create(tx *gorm.DB, sale *model.Transaction) error
	FindAll(ctx context.Context, storeID uuid.UUID, filter SaleFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, id, storeID uuid.UUID) (*model.Transaction, error)
	LockByID(tx *gorm.DB, id, storeID uuid.UUID) (*model.Transaction, error)
	CountByCustomer(tx *gorm.DB, customerID, storeID uuid.UUID) (int64, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create inserts the header, then bulk inserts its items bound to the new id
// with LineNo following slice order.
func (r *transactionRepo) Create(tx *gorm.DB, sale *model.Transaction) error {
	items := sale.Items
	if err := tx.Omit(clause.Associations).Create(sale).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].TransactionID = sale.ID
		items[i].LineNo = i + 1
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	sale.Items = items
	return nil
}

func (r *transactionRepo) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		})
}

func (r *transactionRepo) FindAll(ctx context.Context, storeID uuid.UUID, filter SaleFilter) ([]model.Transaction, error) {
	var sales []model.Transaction
	q := r.withRelations(r.db.WithContext(ctx)).Where("store_id = ?", storeID)
	if filter.Start != nil {
		q = q.Where("created_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("created_at < ?", *filter.End)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	err := q.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id, storeID uuid.UUID) (*model.Transaction, error) {
	var sale model.Transaction
	err := r.withRelations(r.db.WithContext(ctx)).
		First(&sale, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// LockByID loads the header FOR UPDATE together with its items.
func (r *transactionRepo) LockByID(tx *gorm.DB, id, storeID uuid.UUID) (*model.Transaction, error) {
	var sale model.Transaction
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("transaction_id = ?", sale.ID).Order("line_no ASC").Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *transactionRepo) CountByCustomer(tx *gorm.DB, customerID, storeID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&model.Transaction{}).
		Where("customer_id = ? AND store_id = ?", customerID, storeID).
		Count(&count).Error
	return count, err
}

// Delete removes the items first, then the header.
func (r *transactionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("transaction_id = ?", id).Delete(&model.TransactionItem{}).Error; err != nil {
		return err
	}
	result := tx.Where("id = ?", id).Delete(&model.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
