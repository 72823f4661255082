package model

// Store is the tenant boundary; every other record belongs to exactly one store.
type Store struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}
