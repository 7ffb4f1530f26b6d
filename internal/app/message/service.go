package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"backend/internal/app/user"
	"backend/internal/providers/redis"
	"backend/internal/utils"

	"go.uber.org/zap"
)

const maxContentLength = 9999

type Service interface {
	Send(ctx context.Context, channelID uint64, req SendMessageRequest) (*Message, error)
	ListByChannel(ctx context.Context, channelID uint64, page int, limit int) ([]*Message, int64, error)
	GetByID(id uint64) (*Message, error)
	Edit(ctx context.Context, id uint64, content string) (*Message, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo        Repository
	userRepo    user.Repository
	redisP      *redis.RedisProvider
	eventBus    *utils.EventBus
	logger      *zap.SugaredLogger
	cachePrefix string
}

func NewService(
	repo Repository,
	userRepo user.Repository,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	logger *zap.Logger,
) Service {
	return &service{
		repo:        repo,
		userRepo:    userRepo,
		redisP:      redisP,
		eventBus:    eventBus,
		logger:      logger.Sugar(),
		cachePrefix: "messages:channel",
	}
}

func (s *service) Send(ctx context.Context, channelID uint64, req SendMessageRequest) (*Message, error) {
	contentLength := utf8.RuneCountInString(req.Content)
	if contentLength < 1 || contentLength > maxContentLength {
		return nil, fmt.Errorf("message content must be between 1 and %d characters, got %d", maxContentLength, contentLength)
	}

	if _, err := s.userRepo.GetByID(req.AuthorID); err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	m := &Message{
		ChannelID:    channelID,
		AuthorID:     req.AuthorID,
		Content:      req.Content,
		ThreadID:     req.ThreadID,
		AttachmentID: req.AttachmentID,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if req.ThreadID != nil {
		if err := s.repo.IncrementReplyCount(*req.ThreadID); err != nil {
			s.logger.Warnw("Failed to bump thread reply count", "thread_id", *req.ThreadID, "error", err)
		}
	}

	s.invalidateCache(channelID)

	// The embedding-upkeep and avatar-response jobs hang off this
	// event; so does the websocket broadcast.
	s.eventBus.Publish(EventCreated, Event{Message: m, ShouldSpeak: req.ShouldSpeak})

	return m, nil
}

func (s *service) ListByChannel(ctx context.Context, channelID uint64, page int, limit int) ([]*Message, int64, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("%s:%d:page:%d:limit:%d", s.cachePrefix, channelID, page, limit)
	var cached struct {
		Messages []*Message `json:"messages"`
		Total    int64      `json:"total"`
	}
	if data, err := s.redisP.Get(ctx, cacheKey).Result(); err == nil && data != "" {
		if json.Unmarshal([]byte(data), &cached) == nil {
			return cached.Messages, cached.Total, nil
		}
	}

	messages, total, err := s.repo.ListByChannel(channelID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get messages: %w", err)
	}

	s.hydrateAuthors(messages)

	if len(messages) > 0 {
		cached.Messages = messages
		cached.Total = total
		if data, err := json.Marshal(cached); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return messages, total, nil
}

func (s *service) GetByID(id uint64) (*Message, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.hydrateAuthors([]*Message{m})
	return m, nil
}

func (s *service) Edit(ctx context.Context, id uint64, content string) (*Message, error) {
	contentLength := utf8.RuneCountInString(content)
	if contentLength < 1 || contentLength > maxContentLength {
		return nil, fmt.Errorf("message content must be between 1 and %d characters, got %d", maxContentLength, contentLength)
	}

	m, err := s.repo.UpdateContent(id, content)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(m.ChannelID)
	s.eventBus.Publish(EventEdited, Event{Message: m})

	return m, nil
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	s.invalidateCache(m.ChannelID)
	s.eventBus.Publish(EventDeleted, Event{Message: m})

	return nil
}

func (s *service) hydrateAuthors(messages []*Message) {
	names := make(map[uint64]string)
	for _, m := range messages {
		name, ok := names[m.AuthorID]
		if !ok {
			author, err := s.userRepo.GetByID(m.AuthorID)
			if err != nil {
				name = "Deleted User"
			} else {
				name = author.Name
			}
			names[m.AuthorID] = name
		}
		m.AuthorName = name
	}
}

func (s *service) invalidateCache(channelID uint64) {
	pattern := fmt.Sprintf("%s:%d:page:*", s.cachePrefix, channelID)
	deleted := s.redisP.DeleteByPattern(context.Background(), pattern)
	if deleted > 0 {
		s.logger.Debugw("Message list cache invalidated", "channel_id", channelID, "deleted_keys", deleted)
	}
}
