package repository

import (
	"bakeshop-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationRepository interface {
	Create(res *model.Reservation) error
	FindAll() ([]model.Reservation, error)
	FindByID(id uuid.UUID) (*model.Reservation, error)
	MarkFulfilled(tx *gorm.DB, id uuid.UUID, total float64) error
}

type reservationRepo struct {
	db *gorm.DB
}

func NewReservationRepo(db *gorm.DB) ReservationRepository {
	return &reservationRepo{db}
}

func (r *reservationRepo) Create(res *model.Reservation) error {
	return r.db.Create(res).Error
}

func (r *reservationRepo) FindAll() ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.Order("date ASC, created_at ASC").Find(&reservations).Error
	return reservations, err
}

func (r *reservationRepo) FindByID(id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	err := r.db.First(&res, "id = ?", id).Error
	return &res, err
}

// MarkFulfilled runs in the caller's tx so the reservation flips alongside
// the sale it became.
func (r *reservationRepo) MarkFulfilled(tx *gorm.DB, id uuid.UUID, total float64) error {
	return tx.Model(&model.Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pending": false,
			"total":   total,
		}).Error
}
