package model

// Reservation is a customer pre-order. It is purely informational: no stock
// moves until it is fulfilled as an ordinary sale, which clears Pending.
type Reservation struct {
	BaseModel
	// Operator-entered calendar date, expected as YYYY-MM-DD. Kept as text;
	// reports parse per row and skip rows that do not parse.
	Date     string  `gorm:"type:varchar(10);not null" json:"date" validate:"required"`
	Item     string  `gorm:"type:varchar(255);not null" json:"item" validate:"required"`
	Quantity int     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Total    float64 `gorm:"not null;default:0" json:"total"`
	Pending  bool    `gorm:"not null;default:true" json:"pending"`
}

func (Reservation) TableName() string {
	return "reservations"
}
