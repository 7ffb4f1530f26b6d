package reaction

import "time"

const (
	TargetMessage       = "message"
	TargetDirectMessage = "direct_message"
)

// emojiMap translates stored emoji codes to their rendered form.
var emojiMap = map[string]string{
	"thumbs_up": "👍",
	"heart":     "❤️",
	"joy":       "😂",
	"wow":       "😮",
	"sad":       "😢",
	"party":     "🎉",
}

const fallbackEmoji = "❓"

type Reaction struct {
	ID         uint64    `json:"id" gorm:"primaryKey"`
	TargetType string    `json:"target_type" gorm:"not null;uniqueIndex:idx_reaction_unique"`
	TargetID   uint64    `json:"target_id" gorm:"not null;uniqueIndex:idx_reaction_unique"`
	UserID     uint64    `json:"user_id" gorm:"not null;uniqueIndex:idx_reaction_unique"`
	Emoji      string    `json:"emoji" gorm:"not null;uniqueIndex:idx_reaction_unique"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}

type AddReactionRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=message direct_message"`
	TargetID   uint64 `json:"target_id" binding:"required"`
	UserID     uint64 `json:"user_id" binding:"required"`
	Emoji      string `json:"emoji" binding:"required"`
}

type RemoveReactionRequest = AddReactionRequest

// Group is one emoji's aggregate over a target, keyed by emoji code in
// the listing response.
type Group struct {
	Emoji string   `json:"emoji"`
	Count int      `json:"count"`
	Users []uint64 `json:"users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
