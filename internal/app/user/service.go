package user

import (
	"context"
	"fmt"
	"time"

	"backend/internal/providers/redis"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// DefaultAvatarStyle and DefaultAvatarTraits apply to users who never
// configured a persona of their own.
const DefaultAvatarStyle = "You are friendly, direct, and like to use emojis"

var DefaultAvatarTraits = []string{"helpful", "concise", "positive"}

// A user without activity for this long is reported offline regardless
// of stored status.
const offlineThreshold = 5 * time.Minute

type Service interface {
	GetByID(id uint64) (*User, error)
	GetByName(name string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	ConfigureAvatar(id uint64, req ConfigureAvatarRequest) (*User, error)
}

type service struct {
	repo   Repository
	redisP *redis.RedisProvider
	logger *zap.SugaredLogger
}

func NewService(repo Repository, redisP *redis.RedisProvider, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		redisP: redisP,
		logger: logger.Sugar(),
	}
}

func (s *service) GetByID(id uint64) (*User, error) {
	return s.repo.GetByID(id)
}

func (s *service) GetByName(name string) (*User, error) {
	return s.repo.GetByName(name)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	now := time.Now().UTC()
	for _, u := range users {
		if u.LastSeenAt == nil || now.Sub(*u.LastSeenAt) > offlineThreshold {
			u.Status = StatusOffline
			continue
		}
		if u.Status != StatusOnline && u.Status != StatusAway {
			u.Status = StatusOffline
		}
	}
	return users, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uint64, status string) error {
	if err := s.repo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	// Presence key mirrors the DB write so list pages can be served
	// from cache without going stale for minutes.
	key := fmt.Sprintf("presence:%d", id)
	s.redisP.SetEX(ctx, key, status, offlineThreshold)
	return nil
}

func (s *service) ConfigureAvatar(id uint64, req ConfigureAvatarRequest) (*User, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	style := DefaultAvatarStyle
	if req.Style != nil {
		style = *req.Style
	}
	traits := DefaultAvatarTraits
	if len(req.Traits) > 0 {
		traits = req.Traits
	}

	fields := map[string]interface{}{
		"auto_avatar_enabled": enabled,
		"avatar_style":        style,
		"avatar_traits":       datatypes.NewJSONSlice(traits),
	}
	if err := s.repo.UpdatePersona(id, fields); err != nil {
		return nil, fmt.Errorf("failed to update persona: %w", err)
	}

	s.logger.Infow("Avatar persona configured", "user_id", id, "enabled", enabled)
	return s.repo.GetByID(id)
}
