package search

import (
	"fmt"
	"sort"

	"backend/internal/app/channel"
	"backend/internal/app/user"

	"go.uber.org/zap"
)

const (
	deletedUserName    = "Deleted User"
	deletedChannelName = "Deleted Channel"
)

type Users interface {
	GetByID(id uint64) (*user.User, error)
}

type Channels interface {
	GetByID(id uint64) (*channel.Channel, error)
}

type Service interface {
	// Search runs a substring search over channel messages and direct
	// messages, newest first.
	Search(f Filters) ([]*Result, error)
}

type service struct {
	repo     Repository
	users    Users
	channels Channels
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, users Users, channels Channels, logger *zap.Logger) Service {
	return &service{repo: repo, users: users, channels: channels, logger: logger.Sugar()}
}

func (s *service) Search(f Filters) ([]*Result, error) {
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = defaultLimit
	}

	messages, err := s.repo.SearchMessages(f)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	results := make([]*Result, 0, len(messages))
	userNames := map[uint64]string{}
	channelNames := map[uint64]string{}

	for _, m := range messages {
		channelID := m.ChannelID
		results = append(results, &Result{
			Type:        TypeChannelMessage,
			ID:          m.ID,
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
			AuthorID:    m.AuthorID,
			AuthorName:  s.userName(userNames, m.AuthorID),
			ChannelID:   &channelID,
			ChannelName: s.channelName(channelNames, m.ChannelID),
		})
	}

	// A channel filter scopes the search to that channel, so DMs are
	// out of range.
	if f.ChannelID == nil {
		dms, err := s.repo.SearchDirectMessages(f)
		if err != nil {
			return nil, fmt.Errorf("failed to search direct messages: %w", err)
		}
		for _, m := range dms {
			receiverID := m.ReceiverID
			results = append(results, &Result{
				Type:          TypeDirectMessage,
				ID:            m.ID,
				Content:       m.Content,
				CreatedAt:     m.CreatedAt,
				AuthorID:      m.SenderID,
				AuthorName:    s.userName(userNames, m.SenderID),
				ReceiverID:    &receiverID,
				RecipientName: s.userName(userNames, m.ReceiverID),
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if len(results) > f.Limit {
		results = results[:f.Limit]
	}
	return results, nil
}

func (s *service) userName(cache map[uint64]string, id uint64) string {
	if name, ok := cache[id]; ok {
		return name
	}
	name := deletedUserName
	if u, err := s.users.GetByID(id); err == nil && u != nil {
		name = u.Name
	}
	cache[id] = name
	return name
}

func (s *service) channelName(cache map[uint64]string, id uint64) string {
	if name, ok := cache[id]; ok {
		return name
	}
	name := deletedChannelName
	if ch, err := s.channels.GetByID(id); err == nil && ch != nil {
		name = ch.Name
	}
	cache[id] = name
	return name
}
