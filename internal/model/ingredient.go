package model

import "strings"

// AdminExpensePrefix marks a material-ledger row as an administrative expense
// (rent, utilities, ...) rather than a physical ingredient. Such rows carry
// cost but no meaningful stock, so stock views and low-stock checks skip them.
const AdminExpensePrefix = "EXP:"

type Ingredient struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`

	// Quantity on hand is operator-entered free text ("5kg", "2.5 L", ...).
	// It is only ever interpreted through pkg/quantity.
	Quantity string `gorm:"type:varchar(64)" json:"quantity"`

	// Cost accumulates across restocks and is never reset.
	Cost float64 `gorm:"not null;default:0" json:"cost" validate:"gte=0"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func (i *Ingredient) IsAdminExpense() bool {
	return strings.HasPrefix(i.Name, AdminExpensePrefix)
}
