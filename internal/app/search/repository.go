package search

import (
	"backend/internal/app/directmessage"
	"backend/internal/app/message"

	"gorm.io/gorm"
)

type Repository interface {
	SearchMessages(f Filters) ([]*message.Message, error)
	SearchDirectMessages(f Filters) ([]*directmessage.DirectMessage, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SearchMessages(f Filters) ([]*message.Message, error) {
	q := r.db.Model(&message.Message{}).
		Where("content ILIKE ?", "%"+f.Query+"%")

	if f.ChannelID != nil {
		q = q.Where("channel_id = ?", *f.ChannelID)
	}
	if f.UserID != nil {
		q = q.Where("author_id = ?", *f.UserID)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}

	var messages []*message.Message
	err := q.Order("created_at DESC").Limit(f.Limit).Find(&messages).Error
	return messages, err
}

func (r *repository) SearchDirectMessages(f Filters) ([]*directmessage.DirectMessage, error) {
	q := r.db.Model(&directmessage.DirectMessage{}).
		Where("content ILIKE ?", "%"+f.Query+"%")

	if f.UserID != nil {
		q = q.Where("sender_id = ?", *f.UserID)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}

	var messages []*directmessage.DirectMessage
	err := q.Order("created_at DESC").Limit(f.Limit).Find(&messages).Error
	return messages, err
}
