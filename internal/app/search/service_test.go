package search

import (
	"errors"
	"testing"
	"time"

	"backend/internal/app/channel"
	"backend/internal/app/directmessage"
	"backend/internal/app/message"
	"backend/internal/app/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepo struct {
	messages []*message.Message
	dms      []*directmessage.DirectMessage
	lastF    Filters
}

func (s *stubRepo) SearchMessages(f Filters) ([]*message.Message, error) {
	s.lastF = f
	return s.messages, nil
}

func (s *stubRepo) SearchDirectMessages(f Filters) ([]*directmessage.DirectMessage, error) {
	return s.dms, nil
}

type stubUsers map[uint64]string

func (s stubUsers) GetByID(id uint64) (*user.User, error) {
	name, ok := s[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &user.User{ID: id, Name: name}, nil
}

type stubChannels map[uint64]string

func (s stubChannels) GetByID(id uint64) (*channel.Channel, error) {
	name, ok := s[id]
	if !ok {
		return nil, errors.New("channel not found")
	}
	return &channel.Channel{ID: id, Name: name}, nil
}

func ts(min int) time.Time {
	return time.Date(2025, 4, 1, 12, min, 0, 0, time.UTC)
}

func TestSearchMergesAndSortsNewestFirst(t *testing.T) {
	repo := &stubRepo{
		messages: []*message.Message{
			{ID: 1, ChannelID: 7, AuthorID: 1, Content: "deploy plan", CreatedAt: ts(10)},
			{ID: 2, ChannelID: 7, AuthorID: 2, Content: "deploy done", CreatedAt: ts(30)},
		},
		dms: []*directmessage.DirectMessage{
			{ID: 3, SenderID: 1, ReceiverID: 2, Content: "deploy secretly", CreatedAt: ts(20)},
		},
	}
	svc := NewService(repo, stubUsers{1: "alice", 2: "bob"}, stubChannels{7: "general"}, zap.NewNop())

	results, err := svc.Search(Filters{Query: "deploy"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, uint64(2), results[0].ID)
	assert.Equal(t, uint64(3), results[1].ID)
	assert.Equal(t, uint64(1), results[2].ID)

	assert.Equal(t, TypeChannelMessage, results[0].Type)
	assert.Equal(t, "bob", results[0].AuthorName)
	assert.Equal(t, "general", results[0].ChannelName)

	assert.Equal(t, TypeDirectMessage, results[1].Type)
	assert.Equal(t, "alice", results[1].AuthorName)
	assert.Equal(t, "bob", results[1].RecipientName)
}

func TestSearchChannelFilterSkipsDMs(t *testing.T) {
	channelID := uint64(7)
	repo := &stubRepo{
		messages: []*message.Message{
			{ID: 1, ChannelID: 7, AuthorID: 1, Content: "hit", CreatedAt: ts(1)},
		},
		dms: []*directmessage.DirectMessage{
			{ID: 3, SenderID: 1, ReceiverID: 2, Content: "hit", CreatedAt: ts(2)},
		},
	}
	svc := NewService(repo, stubUsers{1: "alice"}, stubChannels{7: "general"}, zap.NewNop())

	results, err := svc.Search(Filters{Query: "hit", ChannelID: &channelID})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, TypeChannelMessage, results[0].Type)
}

func TestSearchDeletedUserFallback(t *testing.T) {
	repo := &stubRepo{
		messages: []*message.Message{
			{ID: 1, ChannelID: 9, AuthorID: 404, Content: "orphan", CreatedAt: ts(1)},
		},
	}
	svc := NewService(repo, stubUsers{}, stubChannels{}, zap.NewNop())

	results, err := svc.Search(Filters{Query: "orphan"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Deleted User", results[0].AuthorName)
	assert.Equal(t, "Deleted Channel", results[0].ChannelName)
}

func TestSearchDefaultLimit(t *testing.T) {
	var msgs []*message.Message
	for i := 0; i < 30; i++ {
		msgs = append(msgs, &message.Message{
			ID: uint64(i + 1), ChannelID: 7, AuthorID: 1,
			Content: "bulk", CreatedAt: ts(i),
		})
	}
	repo := &stubRepo{messages: msgs}
	svc := NewService(repo, stubUsers{1: "alice"}, stubChannels{7: "general"}, zap.NewNop())

	results, err := svc.Search(Filters{Query: "bulk"})
	require.NoError(t, err)
	assert.Len(t, results, 20)
	assert.Equal(t, 20, repo.lastF.Limit)
}
