package reaction

import (
	"fmt"

	"backend/internal/utils"

	"go.uber.org/zap"
)

const (
	EventAdded   = "reaction_added"
	EventRemoved = "reaction_removed"
)

type Service interface {
	// Add is idempotent: adding an emoji the user already reacted with
	// returns the existing row.
	Add(req AddReactionRequest) (*Reaction, error)
	Remove(req RemoveReactionRequest) error
	// ListGrouped aggregates a target's reactions per emoji code.
	ListGrouped(targetType string, targetID uint64) (map[string]*Group, error)
}

type service struct {
	repo     Repository
	eventBus *utils.EventBus
	logger   *zap.SugaredLogger
}

func NewService(repo Repository, eventBus *utils.EventBus, logger *zap.Logger) Service {
	return &service{repo: repo, eventBus: eventBus, logger: logger.Sugar()}
}

func (s *service) Add(req AddReactionRequest) (*Reaction, error) {
	existing, err := s.repo.Find(req.TargetType, req.TargetID, req.UserID, req.Emoji)
	if err != nil {
		return nil, fmt.Errorf("failed to look up reaction: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	r := &Reaction{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		UserID:     req.UserID,
		Emoji:      req.Emoji,
	}
	if err := s.repo.Create(r); err != nil {
		return nil, fmt.Errorf("failed to add reaction: %w", err)
	}

	s.eventBus.Publish(EventAdded, r)
	return r, nil
}

func (s *service) Remove(req RemoveReactionRequest) error {
	if err := s.repo.Delete(req.TargetType, req.TargetID, req.UserID, req.Emoji); err != nil {
		return fmt.Errorf("failed to remove reaction: %w", err)
	}
	s.eventBus.Publish(EventRemoved, &Reaction{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		UserID:     req.UserID,
		Emoji:      req.Emoji,
	})
	return nil
}

func (s *service) ListGrouped(targetType string, targetID uint64) (map[string]*Group, error) {
	reactions, err := s.repo.ListByTarget(targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	groups := make(map[string]*Group, len(reactions))
	for _, r := range reactions {
		g, ok := groups[r.Emoji]
		if !ok {
			emoji, known := emojiMap[r.Emoji]
			if !known {
				emoji = fallbackEmoji
			}
			g = &Group{Emoji: emoji, Users: []uint64{}}
			groups[r.Emoji] = g
		}
		g.Count++
		g.Users = append(g.Users, r.UserID)
	}
	return groups, nil
}
