package channel

import (
	"errors"

	"backend/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(channel *Channel) error
	GetByID(id uint64) (*Channel, error)
	List() ([]*Channel, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(channel *Channel) error {
	return r.db.Create(channel).Error
}

func (r *repository) GetByID(id uint64) (*Channel, error) {
	var channel Channel
	err := r.db.Where("id = ?", id).First(&channel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "channel", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *repository) List() ([]*Channel, error) {
	var channels []*Channel
	err := r.db.Order("created_at ASC").Find(&channels).Error
	return channels, err
}
