package model

import "github.com/google/uuid"

// Transaction is a committed sale. Total is fixed at creation.
type Transaction struct {
	BaseModel
	CustomerID  uuid.UUID         `gorm:"type:char(36);not null;index" json:"customerId"`
	Customer    *Customer         `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	Total       int64             `gorm:"not null" json:"total"`
	UserID      *uuid.UUID        `gorm:"type:char(36);index" json:"userId"`
	User        *User             `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	CashierName string            `gorm:"type:varchar(255)" json:"cashierName"`
	StoreID     uuid.UUID         `gorm:"type:char(36);not null;index" json:"storeId"`
	Items       []TransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TransactionItem snapshots the product name and price at sale time; it is
// deliberately not a foreign key to Product.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:char(36);not null;index" json:"transactionId"`
	LineNo        int       `gorm:"not null" json:"lineNo"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"productName"`
	UnitPrice     int64     `gorm:"not null" json:"unitPrice"`
	Quantity      int       `gorm:"not null" json:"quantity"`
}

func (i TransactionItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// SumItems returns Σ unitPrice × quantity.
func SumItems(items []TransactionItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Store{}, &User{}, &Product{}, &Customer{}, &Transaction{}, &TransactionItem{},
	}
}
