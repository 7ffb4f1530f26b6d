package embedding

import (
	"time"

	"backend/internal/apperr"

	"github.com/pgvector/pgvector-go"
)

// CurrentVersion is the embedding-model generation. Rows written by an
// older generation are picked up by the backfill job and re-embedded.
const CurrentVersion = 1

// MessageKind distinguishes the two message tables an embedding row
// can point at.
type MessageKind string

const (
	KindChannelMessage MessageKind = "message"
	KindDirectMessage  MessageKind = "direct_message"
)

// MessageRef is a tagged reference to exactly one source message, so
// the "one of messageID/directMessageID" invariant is enforced by
// construction rather than by convention.
type MessageRef struct {
	Kind MessageKind `json:"kind"`
	ID   uint64      `json:"id"`
}

func (r MessageRef) Validate() error {
	if r.ID == 0 {
		return apperr.Validation("message reference has no id")
	}
	switch r.Kind {
	case KindChannelMessage, KindDirectMessage:
		return nil
	default:
		return apperr.Validation("unknown message kind %q", r.Kind)
	}
}

// Embedding stores the vector for one source message. At most one row
// exists per message; recomputation patches the row in place.
type Embedding struct {
	ID              uint64          `json:"id" gorm:"primaryKey"`
	MessageID       *uint64         `json:"message_id,omitempty" gorm:"uniqueIndex"`
	DirectMessageID *uint64         `json:"direct_message_id,omitempty" gorm:"uniqueIndex"`
	UserID          uint64          `json:"user_id" gorm:"not null;index"`
	ChannelID       *uint64         `json:"channel_id,omitempty"`
	Embedding       pgvector.Vector `json:"-" gorm:"type:vector(1536)"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null"`
	LastUpdated     time.Time       `json:"last_updated" gorm:"not null"`
	Version         int             `json:"version" gorm:"not null"`
}

// Ref reconstructs the tagged reference from the stored columns.
func (e *Embedding) Ref() MessageRef {
	if e.MessageID != nil {
		return MessageRef{Kind: KindChannelMessage, ID: *e.MessageID}
	}
	if e.DirectMessageID != nil {
		return MessageRef{Kind: KindDirectMessage, ID: *e.DirectMessageID}
	}
	return MessageRef{}
}

// Match is one vector-search hit: the source reference plus the
// similarity score, highest first.
type Match struct {
	Ref       MessageRef
	UserID    uint64
	ChannelID *uint64
	Score     float64
}
