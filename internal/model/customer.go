package model

import "github.com/google/uuid"

type Customer struct {
	BaseModel
	Name    string    `gorm:"type:varchar(255);not null" json:"name"`
	StoreID uuid.UUID `gorm:"type:char(36);not null;index" json:"storeId"`
}
