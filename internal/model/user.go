package model

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleCashier Role = "cashier"
)

// MinPasswordLength applies to registration, collaborators and password changes.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt hashes.
const MaxPasswordBytes = 72

// User represents an authenticated owner or cashier of a store
type User struct {
	BaseModel
	Email    string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Role     Role      `gorm:"type:varchar(20);not null;default:owner;index" json:"role"`
	StoreID  uuid.UUID `gorm:"type:char(36);not null;index" json:"storeId"`
	Store    *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	StoreID   uuid.UUID `json:"storeId"`
	StoreName string    `json:"storeName,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    u.Role,
		StoreID: u.StoreID,
	}
	if u.Store != nil {
		resp.StoreName = u.Store.Name
	}
	return resp
}
