package avatar

import (
	"backend/internal/app/directmessage"
	"backend/internal/app/embedding"
	"backend/internal/app/message"
	"backend/internal/jobs"
	"backend/internal/utils"

	"go.uber.org/zap"
)

// Dispatcher turns message lifecycle events into background jobs:
// embedding upkeep for every message, plus an avatar run when the
// content addresses someone's avatar. Avatar-authored messages are
// never dispatched, which keeps avatars from answering each other
// forever.
type Dispatcher struct {
	svc       Service
	embedding embedding.Service
	sched     jobs.Scheduler
	logger    *zap.SugaredLogger
}

func NewDispatcher(svc Service, embeddingSvc embedding.Service, sched jobs.Scheduler, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		svc:       svc,
		embedding: embeddingSvc,
		sched:     sched,
		logger:    logger.Sugar(),
	}
}

// Register subscribes the dispatcher to the bus. Call once before the
// bus starts delivering.
func (d *Dispatcher) Register(bus *utils.EventBus) {
	bus.Subscribe(message.EventCreated, d.onMessage(true))
	bus.Subscribe(message.EventEdited, d.onMessage(false))
	bus.Subscribe(message.EventDeleted, d.onMessageDeleted)
	bus.Subscribe(directmessage.EventCreated, d.onDirectMessage(true))
	bus.Subscribe(directmessage.EventEdited, d.onDirectMessage(false))
	bus.Subscribe(directmessage.EventDeleted, d.onDirectMessageDeleted)
}

func (d *Dispatcher) onMessage(created bool) utils.Handler {
	return func(event utils.Event) {
		payload, ok := event.Data.(message.Event)
		if !ok || payload.Message == nil {
			return
		}
		m := payload.Message
		if m.IsAvatarMessage {
			return
		}

		ref := embedding.MessageRef{Kind: embedding.KindChannelMessage, ID: m.ID}
		d.sched.RunAfter(0, embedding.NewUpsertJob(d.embedding, ref, m.Content))

		if created && ParseMention(m.Content) != nil {
			channelID := m.ChannelID
			d.sched.RunAfter(0, NewRespondJob(d.svc, MentionInput{
				Ref:         ref,
				Content:     m.Content,
				AuthorID:    m.AuthorID,
				ChannelID:   &channelID,
				ShouldSpeak: payload.ShouldSpeak,
			}, d.logger.Desugar()))
		}
	}
}

func (d *Dispatcher) onMessageDeleted(event utils.Event) {
	payload, ok := event.Data.(message.Event)
	if !ok || payload.Message == nil {
		return
	}
	ref := embedding.MessageRef{Kind: embedding.KindChannelMessage, ID: payload.Message.ID}
	d.sched.RunAfter(0, embedding.NewDeleteJob(d.embedding, ref))
}

func (d *Dispatcher) onDirectMessage(created bool) utils.Handler {
	return func(event utils.Event) {
		payload, ok := event.Data.(directmessage.Event)
		if !ok || payload.Message == nil {
			return
		}
		m := payload.Message
		if m.IsAvatarMessage {
			return
		}

		ref := embedding.MessageRef{Kind: embedding.KindDirectMessage, ID: m.ID}
		d.sched.RunAfter(0, embedding.NewUpsertJob(d.embedding, ref, m.Content))

		if created && ParseMention(m.Content) != nil {
			receiverID := m.ReceiverID
			d.sched.RunAfter(0, NewRespondJob(d.svc, MentionInput{
				Ref:         ref,
				Content:     m.Content,
				AuthorID:    m.SenderID,
				ReceiverID:  &receiverID,
				ShouldSpeak: payload.ShouldSpeak,
			}, d.logger.Desugar()))
		}
	}
}

func (d *Dispatcher) onDirectMessageDeleted(event utils.Event) {
	payload, ok := event.Data.(directmessage.Event)
	if !ok || payload.Message == nil {
		return
	}
	ref := embedding.MessageRef{Kind: embedding.KindDirectMessage, ID: payload.Message.ID}
	d.sched.RunAfter(0, embedding.NewDeleteJob(d.embedding, ref))
}
