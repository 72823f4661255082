package repository

import (
	"context"
	"strings"

	"go-kasir-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductFilter struct {
	Category string
	Search   string
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, storeID uuid.UUID, filter ProductFilter) ([]model.Product, error)
	FindByID(ctx context.Context, id, storeID uuid.UUID) (*model.Product, error)
	FindLowStock(ctx context.Context, storeID uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, id, storeID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id, storeID uuid.UUID) error
	LockByNames(tx *gorm.DB, storeID uuid.UUID, names []string) ([]model.Product, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, storeID uuid.UUID, filter ProductFilter) ([]model.Product, error) {
	var products []model.Product
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	err := q.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id, storeID uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ? AND store_id = ?", id, storeID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindLowStock(ctx context.Context, storeID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND stock <= min_stock", storeID).
		Order("stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

// Update writes only the given columns so concurrent stock movements on the
// same row are not overwritten.
func (r *productRepo) Update(ctx context.Context, id, storeID uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(fields).Error
}

func (r *productRepo) Delete(ctx context.Context, id, storeID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ? AND store_id = ?", id, storeID).Delete(&model.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockByNames loads the store's products matching names with SELECT ... FOR
// UPDATE. Rows come back ordered by id so concurrent callers lock in the same
// order.
func (r *productRepo) LockByNames(tx *gorm.DB, storeID uuid.UUID, names []string) ([]model.Product, error) {
	var products []model.Product
	if len(names) == 0 {
		return products, nil
	}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND name IN ?", storeID, names).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

// AdjustStock adds delta to the product's stock. A negative delta only applies
// while enough stock remains; false means the row was not updated.
func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	q := tx.Model(&model.Product{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	result := q.Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
