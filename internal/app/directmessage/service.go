package directmessage

import (
	"context"
	"fmt"
	"unicode/utf8"

	"backend/internal/app/user"
	"backend/internal/utils"

	"go.uber.org/zap"
)

const maxContentLength = 9999

type Service interface {
	Send(ctx context.Context, req SendDirectMessageRequest) (*DirectMessage, error)
	Conversation(ctx context.Context, userA uint64, userB uint64) ([]*DirectMessage, error)
	Edit(ctx context.Context, id uint64, content string) (*DirectMessage, error)
}

type service struct {
	repo     Repository
	userRepo user.Repository
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, userRepo user.Repository, eventBus *utils.EventBus, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		userRepo: userRepo,
		eventBus: eventBus,
		logger:   logger.Sugar(),
	}
}

func (s *service) Send(ctx context.Context, req SendDirectMessageRequest) (*DirectMessage, error) {
	contentLength := utf8.RuneCountInString(req.Content)
	if contentLength < 1 || contentLength > maxContentLength {
		return nil, fmt.Errorf("message content must be between 1 and %d characters, got %d", maxContentLength, contentLength)
	}

	if _, err := s.userRepo.GetByID(req.SenderID); err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}
	if _, err := s.userRepo.GetByID(req.ReceiverID); err != nil {
		return nil, fmt.Errorf("failed to resolve receiver: %w", err)
	}

	m := &DirectMessage{
		SenderID:     req.SenderID,
		ReceiverID:   req.ReceiverID,
		Content:      req.Content,
		AttachmentID: req.AttachmentID,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, fmt.Errorf("failed to create direct message: %w", err)
	}

	s.eventBus.Publish(EventCreated, Event{Message: m, ShouldSpeak: req.ShouldSpeak})
	return m, nil
}

func (s *service) Conversation(ctx context.Context, userA uint64, userB uint64) ([]*DirectMessage, error) {
	messages, err := s.repo.ListBetween(userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}

	names := make(map[uint64]string)
	for _, m := range messages {
		name, ok := names[m.SenderID]
		if !ok {
			sender, err := s.userRepo.GetByID(m.SenderID)
			if err != nil {
				name = "Deleted User"
			} else {
				name = sender.Name
			}
			names[m.SenderID] = name
		}
		m.SenderName = name
	}
	return messages, nil
}

func (s *service) Edit(ctx context.Context, id uint64, content string) (*DirectMessage, error) {
	contentLength := utf8.RuneCountInString(content)
	if contentLength < 1 || contentLength > maxContentLength {
		return nil, fmt.Errorf("message content must be between 1 and %d characters, got %d", maxContentLength, contentLength)
	}

	m, err := s.repo.UpdateContent(id, content)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(EventEdited, Event{Message: m})
	return m, nil
}
