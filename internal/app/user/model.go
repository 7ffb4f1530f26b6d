package user

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusOnline  = "online"
	StatusAway    = "away"
	StatusOffline = "offline"
)

type User struct {
	ID         uint64     `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name" gorm:"uniqueIndex;not null"`
	Email      string     `json:"email" gorm:"uniqueIndex;not null"`
	Status     string     `json:"status" gorm:"not null;default:'offline'"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`

	// Avatar persona: consulted only when building a persona prompt.
	AutoAvatarEnabled bool                         `json:"auto_avatar_enabled" gorm:"not null;default:false"`
	AvatarStyle       string                       `json:"avatar_style"`
	AvatarTraits      datatypes.JSONSlice[string]  `json:"avatar_traits"`
	VoiceDescription  *string                      `json:"voice_description,omitempty"`
	VoiceID           *string                      `json:"voice_id,omitempty"`
	VoiceModelID      *string                      `json:"voice_model_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=online away offline"`
}

type ConfigureAvatarRequest struct {
	Enabled *bool    `json:"enabled,omitempty"`
	Style   *string  `json:"style,omitempty"`
	Traits  []string `json:"traits,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
