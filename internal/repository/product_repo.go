package repository

import (
	"bakeshop-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByName(name string) (*model.Product, error)
	FindByNameLocked(tx *gorm.DB, name string) (*model.Product, error)
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error
	DeleteByName(name string) error
	FindBelowStock(threshold int) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "name = ?", name).Error
	return &product, err
}

// FindByNameLocked takes the caller's tx so the row stays locked for the rest
// of a fulfillment transaction.
func (r *productRepo) FindByNameLocked(tx *gorm.DB, name string) (*model.Product, error) {
	var product model.Product
	err := lockForUpdate(tx).First(&product, "name = ?", name).Error
	return &product, err
}

func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", newStock).Error
}

func (r *productRepo) DeleteByName(name string) error {
	res := r.db.Where("name = ?", name).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindBelowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("stock < ?", threshold).Order("stock ASC").Find(&products).Error
	return products, err
}
