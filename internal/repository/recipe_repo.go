package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"bakeshop-pos/internal/model"

	"gorm.io/gorm"
)

// recipeDocID: the whole recipe book lives in one row.
const recipeDocID = 1

type RecipeRepository interface {
	// Get returns the links for one product; an empty map when the product
	// has no recipe. Never an error for an unknown product.
	Get(product string) (map[string]float64, error)
	// GetTx is Get within a caller-owned transaction.
	GetTx(tx *gorm.DB, product string) (map[string]float64, error)
	// Set upserts a single (product, ingredient, usage) link. The whole
	// document is read, modified and rewritten under a transaction, so
	// unrelated links are preserved.
	Set(product, ingredient string, usage float64) error
	// Ensure creates the empty document row if the store is fresh.
	Ensure() error
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db}
}

func (r *recipeRepo) Ensure() error {
	doc := model.RecipeDocument{ID: recipeDocID, Doc: "{}"}
	return r.db.Where("id = ?", recipeDocID).FirstOrCreate(&doc).Error
}

func (r *recipeRepo) load(tx *gorm.DB, lock bool) (model.RecipeBook, error) {
	var doc model.RecipeDocument
	q := tx
	if lock {
		q = lockForUpdate(tx)
	}
	if err := q.First(&doc, "id = ?", recipeDocID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.RecipeBook{}, nil
		}
		return nil, err
	}
	book := model.RecipeBook{}
	if err := json.Unmarshal([]byte(doc.Doc), &book); err != nil {
		return nil, fmt.Errorf("recipe document corrupt: %w", err)
	}
	return book, nil
}

func (r *recipeRepo) Get(product string) (map[string]float64, error) {
	return r.GetTx(r.db, product)
}

func (r *recipeRepo) GetTx(tx *gorm.DB, product string) (map[string]float64, error) {
	book, err := r.load(tx, false)
	if err != nil {
		return nil, err
	}
	links, ok := book[product]
	if !ok {
		return map[string]float64{}, nil
	}
	return links, nil
}

func (r *recipeRepo) Set(product, ingredient string, usage float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		book, err := r.load(tx, true)
		if err != nil {
			return err
		}
		if book[product] == nil {
			book[product] = map[string]float64{}
		}
		book[product][ingredient] = usage
		raw, err := json.Marshal(book)
		if err != nil {
			return err
		}
		res := tx.Model(&model.RecipeDocument{}).
			Where("id = ?", recipeDocID).
			Update("doc", string(raw))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&model.RecipeDocument{ID: recipeDocID, Doc: string(raw)}).Error
		}
		return nil
	})
}
