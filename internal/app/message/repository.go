package message

import (
	"errors"
	"time"

	"backend/internal/apperr"

	"gorm.io/gorm"
)

type Repository interface {
	Create(m *Message) error
	GetByID(id uint64) (*Message, error)
	ListByChannel(channelID uint64, page int, limit int) ([]*Message, int64, error)
	UpdateContent(id uint64, content string) (*Message, error)
	Delete(id uint64) error
	SetAudioKey(id uint64, key string) error
	HasAvatarReply(replyToID uint64) (bool, error)
	IncrementReplyCount(threadID uint64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(m *Message) error {
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return r.db.Create(m).Error
}

func (r *repository) GetByID(id uint64) (*Message, error) {
	var m Message
	err := r.db.Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.NotFoundError{Resource: "message", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListByChannel(channelID uint64, page int, limit int) ([]*Message, int64, error) {
	var messages []*Message
	var total int64
	offset := (page - 1) * limit

	err := r.db.Where("channel_id = ?", channelID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	err = r.db.Model(&Message{}).Where("channel_id = ?", channelID).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

func (r *repository) UpdateContent(id uint64, content string) (*Message, error) {
	now := time.Now().UTC()
	res := r.db.Model(&Message{}).
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
		return nil, &apperr.NotFoundError{Resource: "message", ID: id}
	}
	return r.GetByID(id)
}

func (r *repository) Delete(id uint64) error {
	return r.db.Delete(&Message{}, id).Error
}

func (r *repository) SetAudioKey(id uint64, key string) error {
	return r.db.Model(&Message{}).
		Where("id = ?", id).
		Update("audio_key", key).Error
}

// IncrementReplyCount bumps the parent message's thread counters when
// a reply lands in its thread.
func (r *repository) IncrementReplyCount(threadID uint64) error {
	return r.db.Model(&Message{}).
		Where("id = ?", threadID).
		Updates(map[string]interface{}{
			"reply_count":        gorm.Expr("reply_count + 1"),
			"has_thread_replies": true,
		}).Error
}

// HasAvatarReply reports whether an avatar reply to the given message
// already exists; the orchestrator uses it as a duplicate-post guard.
func (r *repository) HasAvatarReply(replyToID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&Message{}).
		Where("reply_to_id = ? AND is_avatar_message = ?", replyToID, true).
		Count(&count).Error
	return count > 0, err
}
