package repository

import (
	"bakeshop-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	Create(ing *model.Ingredient) error
	FindAll() ([]model.Ingredient, error)
	FindByName(name string) (*model.Ingredient, error)
	FindByNameLocked(tx *gorm.DB, name string) (*model.Ingredient, error)
	UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantityText string) error
	Restock(tx *gorm.DB, id uuid.UUID, quantityText string, costDelta float64) error
	DeleteByName(name string) error
}

type ingredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) IngredientRepository {
	return &ingredientRepo{db}
}

func (r *ingredientRepo) Create(ing *model.Ingredient) error {
	return r.db.Create(ing).Error
}

func (r *ingredientRepo) FindAll() ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	err := r.db.Order("name ASC").Find(&ingredients).Error
	return ingredients, err
}

func (r *ingredientRepo) FindByName(name string) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.First(&ing, "name = ?", name).Error
	return &ing, err
}

func (r *ingredientRepo) FindByNameLocked(tx *gorm.DB, name string) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := lockForUpdate(tx).First(&ing, "name = ?", name).Error
	return &ing, err
}

func (r *ingredientRepo) UpdateQuantity(tx *gorm.DB, id uuid.UUID, quantityText string) error {
	return tx.Model(&model.Ingredient{}).
		Where("id = ?", id).
		Update("quantity", quantityText).Error
}

// Restock writes the recomputed quantity text and adds costDelta to the
// cumulative cost in one statement. Cost only ever grows.
func (r *ingredientRepo) Restock(tx *gorm.DB, id uuid.UUID, quantityText string, costDelta float64) error {
	return tx.Model(&model.Ingredient{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity": quantityText,
			"cost":     gorm.Expr("cost + ?", costDelta),
		}).Error
}

func (r *ingredientRepo) DeleteByName(name string) error {
	res := r.db.Where("name = ?", name).Delete(&model.Ingredient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
