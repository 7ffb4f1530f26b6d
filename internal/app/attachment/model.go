package attachment

import "time"

type Attachment struct {
	ID         uint64    `json:"id" gorm:"primaryKey"`
	FileName   string    `json:"file_name" gorm:"not null"`
	FileType   string    `json:"file_type" gorm:"not null"`
	FileSize   int64     `json:"file_size" gorm:"not null"`
	StorageKey string    `json:"storage_key" gorm:"not null;uniqueIndex"`
	UploadedBy uint64    `json:"uploaded_by" gorm:"not null;index"`
	ChannelID  *uint64   `json:"channel_id,omitempty" gorm:"index"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`

	// Filled on read, never stored.
	URL string `json:"url,omitempty" gorm:"-"`
}

type SaveAttachmentRequest struct {
	FileName   string  `json:"file_name" binding:"required"`
	FileType   string  `json:"file_type" binding:"required"`
	FileSize   int64   `json:"file_size" binding:"required"`
	StorageKey string  `json:"storage_key" binding:"required"`
	UploadedBy uint64  `json:"uploaded_by" binding:"required"`
	ChannelID  *uint64 `json:"channel_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
