package message

import "time"

// Bus event names consumed by the websocket hub and the avatar job
// dispatcher.
const (
	EventCreated = "message_created"
	EventEdited  = "message_edited"
	EventDeleted = "message_deleted"
)

// Event is the payload published on the bus for every message
// lifecycle change. ShouldSpeak is carried through from the send
// request so an eventual avatar reply knows to synthesize audio.
type Event struct {
	Message     *Message `json:"message"`
	ShouldSpeak bool     `json:"should_speak"`
}

type Message struct {
	ID        uint64     `json:"id" gorm:"primaryKey"`
	ChannelID uint64     `json:"channel_id" gorm:"not null;index"`
	AuthorID  uint64     `json:"author_id" gorm:"not null;index"`
	Content   string     `json:"content" gorm:"not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"not null"`
	IsEdited  bool       `json:"is_edited" gorm:"not null;default:false"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`

	ThreadID         *uint64 `json:"thread_id,omitempty" gorm:"index"`
	ReplyCount       int     `json:"reply_count" gorm:"not null;default:0"`
	HasThreadReplies bool    `json:"has_thread_replies" gorm:"not null;default:false"`

	AttachmentID *uint64 `json:"attachment_id,omitempty"`
	AudioKey     *string `json:"audio_key,omitempty"`

	// Set on avatar-generated replies together with ReplyToID pointing
	// at the triggering message.
	IsAvatarMessage bool    `json:"is_avatar_message" gorm:"not null;default:false"`
	ReplyToID       *uint64 `json:"reply_to_id,omitempty"`

	AuthorName string `json:"author_name,omitempty" gorm:"-"`
}

type SendMessageRequest struct {
	Content      string  `json:"content" binding:"required"`
	AuthorID     uint64  `json:"author_id" binding:"required"`
	ThreadID     *uint64 `json:"thread_id,omitempty"`
	AttachmentID *uint64 `json:"attachment_id,omitempty"`
	ShouldSpeak  bool    `json:"should_speak"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
