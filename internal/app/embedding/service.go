package embedding

import (
	"context"
	"fmt"
	"time"

	"backend/internal/app/directmessage"
	"backend/internal/app/message"

	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

// Embedder turns message text into a fixed-length vector. Satisfied by
// the OpenAI provider client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChannelMessages and DirectMessages are the slices of the message
// repositories the upkeep service needs to recover a message's owner.
type ChannelMessages interface {
	GetByID(id uint64) (*message.Message, error)
}

type DirectMessages interface {
	GetByID(id uint64) (*directmessage.DirectMessage, error)
}

type Service interface {
	// Upsert computes the vector for one message and converges the
	// index to exactly one row for it, holding the latest vector.
	Upsert(ctx context.Context, ref MessageRef, content string) error
	// Delete removes the row for a deleted source message.
	Delete(ctx context.Context, ref MessageRef) error
	// Search returns the top-K nearest neighbors for a query vector.
	Search(ctx context.Context, vec []float32, limit int) ([]Match, error)
	// MissingRefs lists messages that have no embedding row yet.
	MissingRefs(limit int) ([]MessageRef, error)
	// OutdatedRefs lists rows below the current model version.
	OutdatedRefs(limit int) ([]MessageRef, error)
}

type service struct {
	repo     Repository
	embedder Embedder
	messages ChannelMessages
	dms      DirectMessages
	logger   *zap.SugaredLogger
}

func NewService(
	repo Repository,
	embedder Embedder,
	messages ChannelMessages,
	dms DirectMessages,
	logger *zap.Logger,
) Service {
	return &service{
		repo:     repo,
		embedder: embedder,
		messages: messages,
		dms:      dms,
		logger:   logger.Sugar(),
	}
}

func (s *service) Upsert(ctx context.Context, ref MessageRef, content string) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	// The source message may have been deleted between enqueue and
	// execution; in that case abort without writing.
	row := &Embedding{Version: CurrentVersion}
	switch ref.Kind {
	case KindChannelMessage:
		m, err := s.messages.GetByID(ref.ID)
		if err != nil {
			return err
		}
		id := ref.ID
		row.MessageID = &id
		row.UserID = m.AuthorID
		channelID := m.ChannelID
		row.ChannelID = &channelID
	case KindDirectMessage:
		m, err := s.dms.GetByID(ref.ID)
		if err != nil {
			return err
		}
		id := ref.ID
		row.DirectMessageID = &id
		row.UserID = m.SenderID
	}

	existing, err := s.repo.FindByRef(ref)
	if err != nil {
		return fmt.Errorf("failed to look up embedding: %w", err)
	}

	vector := pgvector.NewVector(vec)
	if existing != nil {
		if err := s.repo.Patch(existing.ID, vector, CurrentVersion); err != nil {
			return fmt.Errorf("failed to update embedding: %w", err)
		}
		s.logger.Debugw("Embedding updated", "kind", ref.Kind, "id", ref.ID)
		return nil
	}

	now := time.Now().UTC()
	row.Embedding = vector
	row.CreatedAt = now
	row.LastUpdated = now
	if err := s.repo.Insert(row); err != nil {
		return fmt.Errorf("failed to insert embedding: %w", err)
	}
	s.logger.Debugw("Embedding stored", "kind", ref.Kind, "id", ref.ID)
	return nil
}

func (s *service) Delete(ctx context.Context, ref MessageRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}
	return s.repo.DeleteByRef(ref)
}

func (s *service) Search(ctx context.Context, vec []float32, limit int) ([]Match, error) {
	if limit < 1 {
		limit = 5
	}
	return s.repo.Search(ctx, vec, limit)
}

func (s *service) MissingRefs(limit int) ([]MessageRef, error) {
	refs := make([]MessageRef, 0, limit)

	ids, err := s.repo.MissingChannelMessageIDs(limit)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		refs = append(refs, MessageRef{Kind: KindChannelMessage, ID: id})
	}

	remaining := limit - len(refs)
	if remaining <= 0 {
		return refs, nil
	}
	dmIDs, err := s.repo.MissingDirectMessageIDs(remaining)
	if err != nil {
		return nil, err
	}
	for _, id := range dmIDs {
		refs = append(refs, MessageRef{Kind: KindDirectMessage, ID: id})
	}
	return refs, nil
}

func (s *service) OutdatedRefs(limit int) ([]MessageRef, error) {
	return s.repo.OutdatedRefs(CurrentVersion, limit)
}
