package db

import (
	"backend/internal/app/attachment"
	"backend/internal/app/channel"
	"backend/internal/app/directmessage"
	"backend/internal/app/embedding"
	"backend/internal/app/message"
	"backend/internal/app/reaction"
	"backend/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	// The embeddings table needs the vector column type before
	// AutoMigrate touches it.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&user.User{},
		&channel.Channel{},
		&message.Message{},
		&directmessage.DirectMessage{},
		&embedding.Embedding{},
		&reaction.Reaction{},
		&attachment.Attachment{},
	); err != nil {
		return err
	}

	// ANN index for similarity search; exact scans still work without
	// it, so a failure only costs speed.
	if err := db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_embeddings_vector ON embeddings USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)",
	).Error; err != nil {
		logger.Warn("Failed to create vector index", zap.Error(err))
	}

	logger.Info("Database migrations completed")
	return nil
}
