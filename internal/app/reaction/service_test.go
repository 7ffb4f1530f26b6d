package reaction

import (
	"testing"

	"backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	rows   []*Reaction
	nextID uint64
}

func (m *memRepo) Find(targetType string, targetID, userID uint64, emoji string) (*Reaction, error) {
	for _, r := range m.rows {
		if r.TargetType == targetType && r.TargetID == targetID && r.UserID == userID && r.Emoji == emoji {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRepo) Create(r *Reaction) error {
	m.nextID++
	r.ID = m.nextID
	m.rows = append(m.rows, r)
	return nil
}

func (m *memRepo) Delete(targetType string, targetID, userID uint64, emoji string) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !(r.TargetType == targetType && r.TargetID == targetID && r.UserID == userID && r.Emoji == emoji) {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memRepo) ListByTarget(targetType string, targetID uint64) ([]*Reaction, error) {
	var out []*Reaction
	for _, r := range m.rows {
		if r.TargetType == targetType && r.TargetID == targetID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestService() (Service, *memRepo) {
	repo := &memRepo{}
	bus := utils.NewEventBus()
	return NewService(repo, bus, zap.NewNop()), repo
}

func TestAddIsIdempotent(t *testing.T) {
	svc, repo := newTestService()

	req := AddReactionRequest{TargetType: TargetMessage, TargetID: 10, UserID: 1, Emoji: "thumbs_up"}

	first, err := svc.Add(req)
	require.NoError(t, err)
	second, err := svc.Add(req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.rows, 1)
}

func TestRemove(t *testing.T) {
	svc, repo := newTestService()

	req := AddReactionRequest{TargetType: TargetMessage, TargetID: 10, UserID: 1, Emoji: "heart"}
	_, err := svc.Add(req)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(req))
	assert.Empty(t, repo.rows)
}

func TestListGrouped(t *testing.T) {
	svc, _ := newTestService()

	for _, r := range []AddReactionRequest{
		{TargetType: TargetMessage, TargetID: 10, UserID: 1, Emoji: "thumbs_up"},
		{TargetType: TargetMessage, TargetID: 10, UserID: 2, Emoji: "thumbs_up"},
		{TargetType: TargetMessage, TargetID: 10, UserID: 3, Emoji: "party"},
		{TargetType: TargetMessage, TargetID: 10, UserID: 1, Emoji: "mystery"},
		{TargetType: TargetMessage, TargetID: 99, UserID: 1, Emoji: "joy"},
	} {
		_, err := svc.Add(r)
		require.NoError(t, err)
	}

	groups, err := svc.ListGrouped(TargetMessage, 10)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, 2, groups["thumbs_up"].Count)
	assert.Equal(t, "👍", groups["thumbs_up"].Emoji)
	assert.ElementsMatch(t, []uint64{1, 2}, groups["thumbs_up"].Users)

	assert.Equal(t, 1, groups["party"].Count)
	assert.Equal(t, "🎉", groups["party"].Emoji)

	// Unknown codes still group, with a fallback glyph.
	assert.Equal(t, "❓", groups["mystery"].Emoji)
}
