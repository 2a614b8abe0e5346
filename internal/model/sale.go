package model

// SaleEvent is one append-only row of the sales ledger. CreatedAt doubles as
// the sale timestamp; rows are never updated after insert.
type SaleEvent struct {
	BaseModel
	Product  string  `gorm:"type:varchar(255);not null;index" json:"product" validate:"required"`
	Quantity int     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Total    float64 `gorm:"not null" json:"total"` // Snapshot price * quantity
}

func (SaleEvent) TableName() string {
	return "sale_events"
}
