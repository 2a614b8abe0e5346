package model

import "time"

// RecipeBook maps product name -> ingredient name -> usage per unit sold.
type RecipeBook map[string]map[string]float64

// RecipeDocument is the single-row persisted form of the recipe book: one
// nested JSON document, read and rewritten whole so an upsert of one link can
// never drop unrelated entries.
type RecipeDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Doc       string    `gorm:"type:text;not null" json:"doc"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RecipeDocument) TableName() string {
	return "recipe_documents"
}
