package channel

import (
	"time"

	"gorm.io/datatypes"
)

type Channel struct {
	ID          uint64                      `json:"id" gorm:"primaryKey"`
	Name        string                      `json:"name" gorm:"uniqueIndex;not null"`
	Description *string                     `json:"description,omitempty"`
	CreatedBy   uint64                      `json:"created_by" gorm:"not null;index"`
	IsPrivate   bool                        `json:"is_private" gorm:"not null;default:false"`
	Members     datatypes.JSONSlice[uint64] `json:"members"`
	CreatedAt   time.Time                   `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type CreateChannelRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=64"`
	CreatedBy uint64 `json:"created_by" binding:"required"`
}
