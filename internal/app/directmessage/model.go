package directmessage

import "time"

const (
	EventCreated = "dm_created"
	EventEdited  = "dm_edited"
	EventDeleted = "dm_deleted"
)

type Event struct {
	Message     *DirectMessage `json:"message"`
	ShouldSpeak bool           `json:"should_speak"`
}

type DirectMessage struct {
	ID         uint64     `json:"id" gorm:"primaryKey"`
	SenderID   uint64     `json:"sender_id" gorm:"not null;index:idx_dm_participants"`
	ReceiverID uint64     `json:"receiver_id" gorm:"not null;index:idx_dm_participants"`
	Content    string     `json:"content" gorm:"not null"`
	CreatedAt  time.Time  `json:"created_at" gorm:"not null;index"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"not null"`
	IsEdited   bool       `json:"is_edited" gorm:"not null;default:false"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`

	AttachmentID *uint64 `json:"attachment_id,omitempty"`
	AudioKey     *string `json:"audio_key,omitempty"`

	IsAvatarMessage bool    `json:"is_avatar_message" gorm:"not null;default:false"`
	ReplyToID       *uint64 `json:"reply_to_id,omitempty"`

	SenderName string `json:"sender_name,omitempty" gorm:"-"`
}

type SendDirectMessageRequest struct {
	Content      string  `json:"content" binding:"required"`
	SenderID     uint64  `json:"sender_id" binding:"required"`
	ReceiverID   uint64  `json:"receiver_id" binding:"required"`
	AttachmentID *uint64 `json:"attachment_id,omitempty"`
	ShouldSpeak  bool    `json:"should_speak"`
}

type EditDirectMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
