package repository

import (
	"context"

	"go-kasir-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(tx *gorm.DB, user *model.User) error
	UpdateName(tx *gorm.DB, id uuid.UUID, name string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
	FindCashiers(ctx context.Context, storeID uuid.UUID) ([]model.User, error)
	FindCashier(ctx context.Context, id, storeID uuid.UUID) (*model.User, error)
	UpdateCashier(ctx context.Context, user *model.User) error
	DeleteCashier(ctx context.Context, id, storeID uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Store").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Store").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Create(tx *gorm.DB, user *model.User) error {
	return tx.Omit("Store").Create(user).Error
}

func (r *userRepo) UpdateName(tx *gorm.DB, id uuid.UUID, name string) error {
	return tx.Model(&model.User{}).Where("id = ?", id).Update("name", name).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) FindCashiers(ctx context.Context, storeID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND role = ?", storeID, model.RoleCashier).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) FindCashier(ctx context.Context, id, storeID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ? AND role = ?", id, storeID, model.RoleCashier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateCashier writes name and password; role and store are never changed.
func (r *userRepo) UpdateCashier(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND store_id = ? AND role = ?", user.ID, user.StoreID, model.RoleCashier).
		Updates(map[string]interface{}{
			"name":     user.Name,
			"password": user.Password,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) DeleteCashier(ctx context.Context, id, storeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ? AND role = ?", id, storeID, model.RoleCashier).
		Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
