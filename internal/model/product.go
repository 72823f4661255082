package model

import "github.com/google/uuid"

// Product is a catalog entry. Sales match products by (StoreID, Name), so the
// pair is unique.
type Product struct {
	BaseModel
	Name     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_store_name" json:"name"`
	Category string    `gorm:"type:varchar(255);default:''" json:"category"`
	Price    int64     `gorm:"not null;default:0" json:"price"`
	Stock    int       `gorm:"not null;default:0" json:"stock"`
	MinStock int       `gorm:"not null;default:0" json:"minStock"`
	ImageURI *string   `gorm:"type:varchar(1024)" json:"imageUri"`
	StoreID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_products_store_name" json:"storeId"`
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
