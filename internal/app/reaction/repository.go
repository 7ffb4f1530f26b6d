package reaction

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Find(targetType string, targetID uint64, userID uint64, emoji string) (*Reaction, error)
	Create(r *Reaction) error
	Delete(targetType string, targetID uint64, userID uint64, emoji string) error
	ListByTarget(targetType string, targetID uint64) ([]*Reaction, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(targetType string, targetID uint64, userID uint64, emoji string) (*Reaction, error) {
	var reaction Reaction
	err := r.db.
		Where("target_type = ? AND target_id = ? AND user_id = ? AND emoji = ?",
			targetType, targetID, userID, emoji).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *repository) Create(reaction *Reaction) error {
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(reaction).Error
}

func (r *repository) Delete(targetType string, targetID uint64, userID uint64, emoji string) error {
	return r.db.
		Where("target_type = ? AND target_id = ? AND user_id = ? AND emoji = ?",
			targetType, targetID, userID, emoji).
		Delete(&Reaction{}).Error
}

func (r *repository) ListByTarget(targetType string, targetID uint64) ([]*Reaction, error) {
	var reactions []*Reaction
	err := r.db.
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at ASC").
		Find(&reactions).Error
	return reactions, err
}
