package model

type Product struct {
	BaseModel
	Name  string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Price float64 `gorm:"not null;default:0" json:"price" validate:"gte=0"`
	Stock int     `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
}

func (Product) TableName() string {
	return "products"
}
