package repository

import (
	"time"

	"bakeshop-pos/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	Append(tx *gorm.DB, sale *model.SaleEvent) error
	FindAll() ([]model.SaleEvent, error)
	FindBetween(start, end time.Time) ([]model.SaleEvent, error)
	SumTotalBetween(start, end time.Time) (float64, error)
	CountBetween(start, end time.Time) (int64, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Append inserts within the caller's tx so the sale commits or rolls back
// together with the stock mutations of the same fulfillment.
func (r *saleRepo) Append(tx *gorm.DB, sale *model.SaleEvent) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.SaleEvent, error) {
	var sales []model.SaleEvent
	err := r.db.Order("created_at DESC").Find(&sales).Error
	return sales, err
}

// FindBetween returns sales with start <= created_at < end, oldest first.
func (r *saleRepo) FindBetween(start, end time.Time) ([]model.SaleEvent, error) {
	var sales []model.SaleEvent
	err := r.db.
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) SumTotalBetween(start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&model.SaleEvent{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) CountBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.SaleEvent{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}
