package model

// Store is the tenant root. Every sale, product, session and expense row
// is scoped by StoreID.
type Store struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address  string `gorm:"type:varchar(255)" json:"address"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
