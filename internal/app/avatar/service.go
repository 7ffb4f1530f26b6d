package avatar

import (
	"context"
	"fmt"

	"backend/internal/app/directmessage"
	"backend/internal/app/embedding"
	"backend/internal/app/message"
	"backend/internal/app/user"
	"backend/internal/providers/fishaudio"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome classifies a Respond run. Only OutcomeReplied means a reply
// was posted.
type Outcome int

const (
	// OutcomeNotApplicable: no mention, unknown username, or a reply to
	// this message already exists.
	OutcomeNotApplicable Outcome = iota
	// OutcomeUnauthorized: the mentioned user has the avatar disabled,
	// or is not a participant of the direct conversation.
	OutcomeUnauthorized
	OutcomeReplied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotApplicable:
		return "not_applicable"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeReplied:
		return "replied"
	}
	return "unknown"
}

// Result reports what a Respond run did. ReplyRef is set only for
// OutcomeReplied.
type Result struct {
	Outcome  Outcome
	Reason   string
	ReplyRef *embedding.MessageRef
}

// MentionInput describes the message that may carry an avatar mention.
// ChannelID is set for channel messages, ReceiverID for direct ones.
type MentionInput struct {
	Ref         embedding.MessageRef
	Content     string
	AuthorID    uint64
	ChannelID   *uint64
	ReceiverID  *uint64
	ShouldSpeak bool
}

type Users interface {
	GetByID(id uint64) (*user.User, error)
	GetByName(name string) (*user.User, error)
}

// Retriever is the vector-search slice of the embedding service.
type Retriever interface {
	Search(ctx context.Context, vec []float32, limit int) ([]embedding.Match, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Speech converts a reply to audio. Optional; a nil client disables
// synthesis.
type Speech interface {
	Synthesize(ctx context.Context, req fishaudio.Request) ([]byte, error)
}

// Blobs stores synthesized audio. Optional alongside Speech.
type Blobs interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

type Bus interface {
	Publish(event string, data interface{})
}

type Service interface {
	// Respond runs the full mention pipeline for one message: parse,
	// authorize, retrieve context, build the persona prompt, complete,
	// and post the reply as the mentioned user.
	Respond(ctx context.Context, in MentionInput) (*Result, error)
}

type service struct {
	users    Users
	messages message.Repository
	dms      directmessage.Repository
	embedder embedding.Embedder
	searcher Retriever
	complete Completer
	speech   Speech
	blobs    Blobs
	bus      Bus
	topK     int
	logger   *zap.SugaredLogger
}

func NewService(
	users Users,
	messages message.Repository,
	dms directmessage.Repository,
	embedder embedding.Embedder,
	searcher Retriever,
	complete Completer,
	speech Speech,
	blobs Blobs,
	bus Bus,
	topK int,
	logger *zap.Logger,
) Service {
	if topK < 1 {
		topK = 5
	}
	return &service{
		users:    users,
		messages: messages,
		dms:      dms,
		embedder: embedder,
		searcher: searcher,
		complete: complete,
		speech:   speech,
		blobs:    blobs,
		bus:      bus,
		topK:     topK,
		logger:   logger.Sugar(),
	}
}

func (s *service) Respond(ctx context.Context, in MentionInput) (*Result, error) {
	mention := ParseMention(in.Content)
	if mention == nil {
		return &Result{Outcome: OutcomeNotApplicable, Reason: "no mention"}, nil
	}

	target, err := s.users.GetByName(mention.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mentioned user %q: %w", mention.Username, err)
	}
	if target == nil {
		return &Result{Outcome: OutcomeNotApplicable, Reason: "unknown user"}, nil
	}
	if !target.AutoAvatarEnabled {
		return &Result{Outcome: OutcomeUnauthorized, Reason: "avatar disabled"}, nil
	}
	if in.Ref.Kind == embedding.KindDirectMessage {
		receiver := uint64(0)
		if in.ReceiverID != nil {
			receiver = *in.ReceiverID
		}
		if target.ID != in.AuthorID && target.ID != receiver {
			return &Result{Outcome: OutcomeUnauthorized, Reason: "not a conversation participant"}, nil
		}
	}

	// A retried job must not post the same reply twice.
	replied, err := s.hasReply(in.Ref)
	if err != nil {
		return nil, err
	}
	if replied {
		return &Result{Outcome: OutcomeNotApplicable, Reason: "already replied"}, nil
	}

	vec, err := s.embedder.Embed(ctx, mention.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	matches, err := s.searcher.Search(ctx, vec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search context: %w", err)
	}
	snippets := s.hydrate(matches)

	persona := Personality{Style: target.AvatarStyle, Traits: target.AvatarTraits}
	if persona.Style == "" {
		persona.Style = user.DefaultAvatarStyle
	}
	if len(persona.Traits) == 0 {
		persona.Traits = user.DefaultAvatarTraits
	}

	voiceDescription := ""
	if target.VoiceDescription != nil {
		voiceDescription = *target.VoiceDescription
	}
	prompt := BuildPrompt(persona, snippets, mention.Query, voiceDescription, in.ShouldSpeak)

	reply, err := s.complete.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate avatar reply: %w", err)
	}

	ref, err := s.post(in, target, reply)
	if err != nil {
		return nil, err
	}

	if in.ShouldSpeak && s.speech != nil && s.blobs != nil {
		s.synthesize(ctx, ref, target, reply)
	}

	s.logger.Infow("Avatar reply posted", "user", target.Name, "kind", ref.Kind, "id", ref.ID)
	return &Result{Outcome: OutcomeReplied, ReplyRef: &ref}, nil
}

func (s *service) hasReply(ref embedding.MessageRef) (bool, error) {
	if ref.Kind == embedding.KindDirectMessage {
		return s.dms.HasAvatarReply(ref.ID)
	}
	return s.messages.HasAvatarReply(ref.ID)
}

// hydrate resolves matches back to their source messages. Matches whose
// source has since been deleted are dropped.
func (s *service) hydrate(matches []embedding.Match) []Snippet {
	snippets := make([]Snippet, 0, len(matches))
	for _, m := range matches {
		switch m.Ref.Kind {
		case embedding.KindChannelMessage:
			msg, err := s.messages.GetByID(m.Ref.ID)
			if err != nil {
				continue
			}
			snippets = append(snippets, Snippet{
				Content:   msg.Content,
				Author:    s.authorName(msg.AuthorID),
				Timestamp: msg.CreatedAt,
				Score:     m.Score,
			})
		case embedding.KindDirectMessage:
			msg, err := s.dms.GetByID(m.Ref.ID)
			if err != nil {
				continue
			}
			snippets = append(snippets, Snippet{
				Content:   msg.Content,
				Author:    s.authorName(msg.SenderID),
				Timestamp: msg.CreatedAt,
				Score:     m.Score,
			})
		}
	}
	return snippets
}

func (s *service) authorName(id uint64) string {
	u, err := s.users.GetByID(id)
	if err != nil || u == nil {
		return "Unknown"
	}
	return u.Name
}

// post writes the reply as the mentioned user and announces it on the
// bus so connected clients see it immediately.
func (s *service) post(in MentionInput, target *user.User, content string) (embedding.MessageRef, error) {
	replyTo := in.Ref.ID

	if in.Ref.Kind == embedding.KindDirectMessage {
		dm := &directmessage.DirectMessage{
			SenderID:        target.ID,
			ReceiverID:      in.AuthorID,
			Content:         content,
			IsAvatarMessage: true,
			ReplyToID:       &replyTo,
		}
		if err := s.dms.Create(dm); err != nil {
			return embedding.MessageRef{}, fmt.Errorf("failed to post avatar direct message: %w", err)
		}
		dm.SenderName = target.Name
		if s.bus != nil {
			s.bus.Publish(directmessage.EventCreated, directmessage.Event{Message: dm})
		}
		return embedding.MessageRef{Kind: embedding.KindDirectMessage, ID: dm.ID}, nil
	}

	channelID := uint64(0)
	if in.ChannelID != nil {
		channelID = *in.ChannelID
	}
	msg := &message.Message{
		ChannelID:       channelID,
		AuthorID:        target.ID,
		Content:         content,
		IsAvatarMessage: true,
		ReplyToID:       &replyTo,
	}
	if err := s.messages.Create(msg); err != nil {
		return embedding.MessageRef{}, fmt.Errorf("failed to post avatar message: %w", err)
	}
	msg.AuthorName = target.Name
	if s.bus != nil {
		s.bus.Publish(message.EventCreated, message.Event{Message: msg})
	}
	return embedding.MessageRef{Kind: embedding.KindChannelMessage, ID: msg.ID}, nil
}

// synthesize renders the reply to audio and attaches the object key to
// the stored message. Failures are logged and otherwise ignored; the
// text reply already stands.
func (s *service) synthesize(ctx context.Context, ref embedding.MessageRef, target *user.User, content string) {
	req := fishaudio.Request{Text: content}
	if target.VoiceID != nil {
		req.VoiceID = *target.VoiceID
	}
	if target.VoiceModelID != nil {
		req.ReferenceID = *target.VoiceModelID
	}
	if target.VoiceDescription != nil {
		req.VoiceInstructions = *target.VoiceDescription
	}

	audio, err := s.speech.Synthesize(ctx, req)
	if err != nil {
		s.logger.Warnw("Voice synthesis failed", "user", target.Name, "error", err)
		return
	}

	key := fmt.Sprintf("audio/%s.mp3", uuid.NewString())
	if err := s.blobs.PutObject(ctx, key, audio, "audio/mpeg"); err != nil {
		s.logger.Warnw("Failed to store synthesized audio", "key", key, "error", err)
		return
	}

	if ref.Kind == embedding.KindDirectMessage {
		err = s.dms.SetAudioKey(ref.ID, key)
	} else {
		err = s.messages.SetAudioKey(ref.ID, key)
	}
	if err != nil {
		s.logger.Warnw("Failed to attach audio key", "key", key, "error", err)
	}
}
