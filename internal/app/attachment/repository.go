package attachment

import (
	"errors"
	"time"

	"backend/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(a *Attachment) error
	GetByID(id uint64) (*Attachment, error)
	ListByChannel(channelID uint64) ([]*Attachment, error)
	ListByUser(userID uint64) ([]*Attachment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(a *Attachment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(a).Error
}

func (r *repository) GetByID(id uint64) (*Attachment, error) {
	var a Attachment
	err := r.db.Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "attachment", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListByChannel(channelID uint64) ([]*Attachment, error) {
	var attachments []*Attachment
	err := r.db.Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}

func (r *repository) ListByUser(userID uint64) ([]*Attachment, error) {
	var attachments []*Attachment
	err := r.db.Where("uploaded_by = ?", userID).
		Order("created_at DESC").
		Find(&attachments).Error
	return attachments, err
}
