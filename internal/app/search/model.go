package search

import "time"

const (
	TypeChannelMessage = "channel_message"
	TypeDirectMessage  = "direct_message"
)

const defaultLimit = 20

// Filters narrows a search. A set ChannelID restricts results to that
// channel and skips direct messages entirely.
type Filters struct {
	Query     string
	ChannelID *uint64
	UserID    *uint64
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Result is one hit, flattened across both message tables. Channel
// fields are set for channel messages, RecipientName for direct ones.
type Result struct {
	Type          string    `json:"type"`
	ID            uint64    `json:"id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	AuthorID      uint64    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	ChannelID     *uint64   `json:"channel_id,omitempty"`
	ChannelName   string    `json:"channel_name,omitempty"`
	ReceiverID    *uint64   `json:"receiver_id,omitempty"`
	RecipientName string    `json:"recipient_name,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
