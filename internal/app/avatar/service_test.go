package avatar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"backend/internal/app/directmessage"
	"backend/internal/app/embedding"
	"backend/internal/app/message"
	"backend/internal/app/user"

	"go.uber.org/zap"
)

type fakeUsers struct {
	byID map[uint64]*user.User
}

func (f *fakeUsers) GetByID(id uint64) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeUsers) GetByName(name string) (*user.User, error) {
	for _, u := range f.byID {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}

type fakeMessages struct {
	byID     map[uint64]*message.Message
	created  []*message.Message
	hasReply bool
	audioKey map[uint64]string
	nextID   uint64
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{
		byID:     map[uint64]*message.Message{},
		audioKey: map[uint64]string{},
		nextID:   1000,
	}
}

func (f *fakeMessages) Create(m *message.Message) error {
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now().UTC()
	f.byID[m.ID] = m
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMessages) GetByID(id uint64) (*message.Message, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return m, nil
}

func (f *fakeMessages) ListByChannel(channelID uint64, page, limit int) ([]*message.Message, int64, error) {
	return nil, 0, nil
}

func (f *fakeMessages) UpdateContent(id uint64, content string) (*message.Message, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMessages) Delete(id uint64) error { return nil }

func (f *fakeMessages) SetAudioKey(id uint64, key string) error {
	f.audioKey[id] = key
	return nil
}

func (f *fakeMessages) HasAvatarReply(replyToID uint64) (bool, error) {
	return f.hasReply, nil
}

func (f *fakeMessages) IncrementReplyCount(threadID uint64) error { return nil }

type fakeDMs struct {
	byID     map[uint64]*directmessage.DirectMessage
	created  []*directmessage.DirectMessage
	hasReply bool
	nextID   uint64
}

func newFakeDMs() *fakeDMs {
	return &fakeDMs{byID: map[uint64]*directmessage.DirectMessage{}, nextID: 2000}
}

func (f *fakeDMs) Create(m *directmessage.DirectMessage) error {
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = time.Now().UTC()
	f.byID[m.ID] = m
	f.created = append(f.created, m)
	return nil
}

func (f *fakeDMs) GetByID(id uint64) (*directmessage.DirectMessage, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, errors.New("direct message not found")
	}
	return m, nil
}

func (f *fakeDMs) ListBetween(userA, userB uint64) ([]*directmessage.DirectMessage, error) {
	return nil, nil
}

func (f *fakeDMs) UpdateContent(id uint64, content string) (*directmessage.DirectMessage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDMs) SetAudioKey(id uint64, key string) error { return nil }

func (f *fakeDMs) HasAvatarReply(replyToID uint64) (bool, error) {
	return f.hasReply, nil
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, 1536), nil
}

type fakeSearcher struct {
	matches []embedding.Match
}

func (f *fakeSearcher) Search(ctx context.Context, vec []float32, limit int) ([]embedding.Match, error) {
	return f.matches, nil
}

type fakeCompleter struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeBus struct {
	events []string
}

func (f *fakeBus) Publish(event string, data interface{}) {
	f.events = append(f.events, event)
}

type fixture struct {
	users    *fakeUsers
	messages *fakeMessages
	dms      *fakeDMs
	embedder *fakeEmbedder
	searcher *fakeSearcher
	complete *fakeCompleter
	bus      *fakeBus
	svc      Service
}

func newFixture() *fixture {
	voice := "slow and warm"
	f := &fixture{
		users: &fakeUsers{byID: map[uint64]*user.User{
			1: {
				ID:                1,
				Name:              "alice",
				AutoAvatarEnabled: true,
				AvatarStyle:       "casual",
				AvatarTraits:      []string{"helpful"},
				VoiceDescription:  &voice,
			},
			2: {ID: 2, Name: "bob"},
			3: {ID: 3, Name: "carol"},
		}},
		messages: newFakeMessages(),
		dms:      newFakeDMs(),
		embedder: &fakeEmbedder{},
		searcher: &fakeSearcher{},
		complete: &fakeCompleter{reply: "here is my answer"},
		bus:      &fakeBus{},
	}
	f.svc = NewService(
		f.users, f.messages, f.dms,
		f.embedder, f.searcher, f.complete,
		nil, nil, f.bus, 5, zap.NewNop(),
	)
	return f
}

func channelInput(content string) MentionInput {
	channelID := uint64(7)
	return MentionInput{
		Ref:       embedding.MessageRef{Kind: embedding.KindChannelMessage, ID: 100},
		Content:   content,
		AuthorID:  2,
		ChannelID: &channelID,
	}
}

func TestRespondNoMention(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Respond(context.Background(), channelInput("just chatting"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeNotApplicable {
		t.Errorf("outcome = %v, want not_applicable", res.Outcome)
	}
	if len(f.messages.created) != 0 {
		t.Errorf("posted %d messages, want 0", len(f.messages.created))
	}
}

func TestRespondUnknownUser(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Respond(context.Background(), channelInput("@nobody's avatar hello"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeNotApplicable {
		t.Errorf("outcome = %v, want not_applicable", res.Outcome)
	}
}

func TestRespondAvatarDisabled(t *testing.T) {
	f := newFixture()

	res, err := f.svc.Respond(context.Background(), channelInput("@bob's avatar hello"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeUnauthorized {
		t.Errorf("outcome = %v, want unauthorized", res.Outcome)
	}
	if f.embedder.calls != 0 {
		t.Errorf("embedder called %d times for a disabled avatar", f.embedder.calls)
	}
	if len(f.messages.created) != 0 {
		t.Errorf("posted %d messages, want 0", len(f.messages.created))
	}
}

func TestRespondChannelMention(t *testing.T) {
	f := newFixture()
	f.messages.byID[50] = &message.Message{
		ID: 50, ChannelID: 7, AuthorID: 3,
		Content:   "we ship on friday",
		CreatedAt: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
	}
	f.searcher.matches = []embedding.Match{
		{Ref: embedding.MessageRef{Kind: embedding.KindChannelMessage, ID: 50}, Score: 0.8},
	}

	res, err := f.svc.Respond(context.Background(), channelInput("@alice's avatar what's the plan?"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeReplied {
		t.Fatalf("outcome = %v, want replied", res.Outcome)
	}

	if len(f.messages.created) != 1 {
		t.Fatalf("posted %d messages, want 1", len(f.messages.created))
	}
	posted := f.messages.created[0]
	if posted.AuthorID != 1 {
		t.Errorf("reply author = %d, want the mentioned user", posted.AuthorID)
	}
	if posted.ChannelID != 7 {
		t.Errorf("reply channel = %d, want 7", posted.ChannelID)
	}
	if !posted.IsAvatarMessage {
		t.Error("reply not flagged as avatar message")
	}
	if posted.ReplyToID == nil || *posted.ReplyToID != 100 {
		t.Errorf("reply_to = %v, want 100", posted.ReplyToID)
	}
	if posted.Content != "here is my answer" {
		t.Errorf("reply content = %q", posted.Content)
	}

	if !strings.Contains(f.complete.prompt, "we ship on friday") {
		t.Errorf("prompt missing retrieved context:\n%s", f.complete.prompt)
	}
	if !strings.Contains(f.complete.prompt, "CURRENT QUERY: what's the plan?") {
		t.Errorf("prompt missing query:\n%s", f.complete.prompt)
	}
	if !strings.Contains(f.complete.prompt, "[carol]") {
		t.Errorf("prompt missing snippet author:\n%s", f.complete.prompt)
	}

	if len(f.bus.events) != 1 || f.bus.events[0] != message.EventCreated {
		t.Errorf("bus events = %v, want [%s]", f.bus.events, message.EventCreated)
	}
}

func TestRespondDirectMessageGate(t *testing.T) {
	f := newFixture()
	receiver := uint64(3)
	in := MentionInput{
		Ref:        embedding.MessageRef{Kind: embedding.KindDirectMessage, ID: 200},
		Content:    "@alice's avatar help us settle this",
		AuthorID:   2,
		ReceiverID: &receiver,
	}

	// alice is neither sender nor receiver of the conversation.
	res, err := f.svc.Respond(context.Background(), in)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeUnauthorized {
		t.Errorf("outcome = %v, want unauthorized", res.Outcome)
	}
	if len(f.dms.created) != 0 {
		t.Errorf("posted %d direct messages, want 0", len(f.dms.created))
	}
}

func TestRespondDirectMessageReply(t *testing.T) {
	f := newFixture()
	receiver := uint64(1)
	in := MentionInput{
		Ref:        embedding.MessageRef{Kind: embedding.KindDirectMessage, ID: 200},
		Content:    "@alice's avatar are you there?",
		AuthorID:   2,
		ReceiverID: &receiver,
	}

	res, err := f.svc.Respond(context.Background(), in)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeReplied {
		t.Fatalf("outcome = %v, want replied", res.Outcome)
	}

	if len(f.dms.created) != 1 {
		t.Fatalf("posted %d direct messages, want 1", len(f.dms.created))
	}
	posted := f.dms.created[0]
	if posted.SenderID != 1 || posted.ReceiverID != 2 {
		t.Errorf("reply sender/receiver = %d/%d, want 1/2", posted.SenderID, posted.ReceiverID)
	}
	if !posted.IsAvatarMessage {
		t.Error("reply not flagged as avatar message")
	}
	if posted.ReplyToID == nil || *posted.ReplyToID != 200 {
		t.Errorf("reply_to = %v, want 200", posted.ReplyToID)
	}
}

func TestRespondDuplicateGuard(t *testing.T) {
	f := newFixture()
	f.messages.hasReply = true

	res, err := f.svc.Respond(context.Background(), channelInput("@alice's avatar again?"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeNotApplicable {
		t.Errorf("outcome = %v, want not_applicable", res.Outcome)
	}
	if f.embedder.calls != 0 {
		t.Errorf("embedder called %d times despite existing reply", f.embedder.calls)
	}
	if len(f.messages.created) != 0 {
		t.Errorf("posted %d messages, want 0", len(f.messages.created))
	}
}

func TestRespondCompletionFailure(t *testing.T) {
	f := newFixture()
	f.complete.err = errors.New("upstream unavailable")

	_, err := f.svc.Respond(context.Background(), channelInput("@alice's avatar hello"))
	if err == nil {
		t.Fatal("expected error from completion failure")
	}
	if !errors.Is(err, f.complete.err) {
		t.Errorf("error does not wrap the provider failure: %v", err)
	}
	if len(f.messages.created) != 0 {
		t.Errorf("posted %d messages after a failed completion, want 0", len(f.messages.created))
	}
	if len(f.bus.events) != 0 {
		t.Errorf("published %v after a failed completion", f.bus.events)
	}
}

func TestRespondDropsUnresolvableMatches(t *testing.T) {
	f := newFixture()
	f.searcher.matches = []embedding.Match{
		{Ref: embedding.MessageRef{Kind: embedding.KindChannelMessage, ID: 9999}, Score: 0.9},
	}

	res, err := f.svc.Respond(context.Background(), channelInput("@alice's avatar anyone?"))
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if res.Outcome != OutcomeReplied {
		t.Fatalf("outcome = %v, want replied", res.Outcome)
	}
	if strings.Contains(f.complete.prompt, "9999") {
		t.Errorf("prompt references a deleted message:\n%s", f.complete.prompt)
	}
}
