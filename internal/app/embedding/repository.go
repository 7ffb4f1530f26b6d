package embedding

import (
	"context"
	"errors"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Repository interface {
	FindByRef(ref MessageRef) (*Embedding, error)
	Insert(e *Embedding) error
	Patch(id uint64, vec pgvector.Vector, version int) error
	DeleteByRef(ref MessageRef) error
	Search(ctx context.Context, vec []float32, limit int) ([]Match, error)
	MissingChannelMessageIDs(limit int) ([]uint64, error)
	MissingDirectMessageIDs(limit int) ([]uint64, error)
	OutdatedRefs(version int, limit int) ([]MessageRef, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByRef(ref MessageRef) (*Embedding, error) {
	var e Embedding
	q := r.db
	switch ref.Kind {
	case KindChannelMessage:
		q = q.Where("message_id = ?", ref.ID)
	case KindDirectMessage:
		q = q.Where("direct_message_id = ?", ref.ID)
	}
	err := q.First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Insert(e *Embedding) error {
	return r.db.Create(e).Error
}

func (r *repository) Patch(id uint64, vec pgvector.Vector, version int) error {
	return r.db.Model(&Embedding{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"embedding":    vec,
			"last_updated": time.Now().UTC(),
			"version":      version,
		}).Error
}

func (r *repository) DeleteByRef(ref MessageRef) error {
	q := r.db
	switch ref.Kind {
	case KindChannelMessage:
		q = q.Where("message_id = ?", ref.ID)
	case KindDirectMessage:
		q = q.Where("direct_message_id = ?", ref.ID)
	}
	return q.Delete(&Embedding{}).Error
}

// Search runs an approximate nearest-neighbor scan over the vector
// index using cosine distance; score is 1 - distance, so higher means
// more similar.
func (r *repository) Search(ctx context.Context, vec []float32, limit int) ([]Match, error) {
	query := pgvector.NewVector(vec)

	var rows []struct {
		MessageID       *uint64
		DirectMessageID *uint64
		UserID          uint64
		ChannelID       *uint64
		Score           float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT message_id, direct_message_id, user_id, channel_id,
		       1 - (embedding <=> ?) AS score
		FROM embeddings
		ORDER BY embedding <=> ?
		LIMIT ?
	`, query, query, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		m := Match{UserID: row.UserID, ChannelID: row.ChannelID, Score: row.Score}
		switch {
		case row.MessageID != nil:
			m.Ref = MessageRef{Kind: KindChannelMessage, ID: *row.MessageID}
		case row.DirectMessageID != nil:
			m.Ref = MessageRef{Kind: KindDirectMessage, ID: *row.DirectMessageID}
		default:
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (r *repository) MissingChannelMessageIDs(limit int) ([]uint64, error) {
	var ids []uint64
	err := r.db.Raw(`
		SELECT m.id FROM messages m
		LEFT JOIN embeddings e ON e.message_id = m.id
		WHERE e.id IS NULL
		ORDER BY m.id
		LIMIT ?
	`, limit).Scan(&ids).Error
	return ids, err
}

func (r *repository) MissingDirectMessageIDs(limit int) ([]uint64, error) {
	var ids []uint64
	err := r.db.Raw(`
		SELECT dm.id FROM direct_messages dm
		LEFT JOIN embeddings e ON e.direct_message_id = dm.id
		WHERE e.id IS NULL
		ORDER BY dm.id
		LIMIT ?
	`, limit).Scan(&ids).Error
	return ids, err
}

// OutdatedRefs lists rows written by an older embedding-model
// generation, for the re-embedding migration.
func (r *repository) OutdatedRefs(version int, limit int) ([]MessageRef, error) {
	var rows []Embedding
	err := r.db.Select("id", "message_id", "direct_message_id").
		Where("version < ?", version).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	refs := make([]MessageRef, 0, len(rows))
	for i := range rows {
		ref := rows[i].Ref()
		if ref.ID != 0 {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}
