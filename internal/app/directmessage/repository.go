package directmessage

import (
	"errors"
	"time"

	"backend/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(m *DirectMessage) error
	GetByID(id uint64) (*DirectMessage, error)
	ListBetween(userA uint64, userB uint64) ([]*DirectMessage, error)
	UpdateContent(id uint64, content string) (*DirectMessage, error)
	SetAudioKey(id uint64, key string) error
	HasAvatarReply(replyToID uint64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(m *DirectMessage) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return r.db.Create(m).Error
}

func (r *repository) GetByID(id uint64) (*DirectMessage, error) {
	var m DirectMessage
	err := r.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "direct_message", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListBetween returns the conversation in both directions,
// chronologically.
func (r *repository) ListBetween(userA uint64, userB uint64) ([]*DirectMessage, error) {
	var messages []*DirectMessage
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *repository) UpdateContent(id uint64, content string) (*DirectMessage, error) {
	now := time.Now().UTC()
	res := r.db.Model(&DirectMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"is_edited":  true,
			"edited_at":  now,
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &apperr.NotFoundError{Resource: "direct_message", ID: id}
	}
	return r.GetByID(id)
}

func (r *repository) SetAudioKey(id uint64, key string) error {
	return r.db.Model(&DirectMessage{}).
		Where("id = ?", id).
		Update("audio_key", key).Error
}

func (r *repository) HasAvatarReply(replyToID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&DirectMessage{}).
		Where("reply_to_id = ? AND is_avatar_message = ?", replyToID, true).
		Count(&count).Error
	return count > 0, err
}
