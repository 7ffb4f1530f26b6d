package seeder

import (
	"backend/internal/app/channel"
	"backend/internal/app/user"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

func (s *Seeder) Seed() error {
	s.logger.Info("Running database seeders...")

	if err := s.seedUsers(); err != nil {
		return err
	}
	if err := s.seedChannels(); err != nil {
		return err
	}

	s.logger.Info("Database seeders completed successfully")
	return nil
}

func (s *Seeder) seedUsers() error {
	var count int64
	s.db.Model(&user.User{}).Count(&count)
	if count > 0 {
		s.logger.Info("Users already exist, skipping seed")
		return nil
	}

	users := []user.User{
		{
			Name:              "alice",
			Email:             "alice@example.com",
			Status:            user.StatusOffline,
			AutoAvatarEnabled: true,
			AvatarStyle:       user.DefaultAvatarStyle,
			AvatarTraits:      datatypes.NewJSONSlice(user.DefaultAvatarTraits),
		},
		{
			Name:              "bob",
			Email:             "bob@example.com",
			Status:            user.StatusOffline,
			AutoAvatarEnabled: true,
			AvatarStyle:       "You are dry, witty, and keep answers short",
			AvatarTraits:      datatypes.NewJSONSlice([]string{"sarcastic", "precise", "calm"}),
		},
		{
			Name:   "carol",
			Email:  "carol@example.com",
			Status: user.StatusOffline,
		},
	}

	if err := s.db.Create(&users).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded users", zap.Int("count", len(users)))
	return nil
}

func (s *Seeder) seedChannels() error {
	var count int64
	s.db.Model(&channel.Channel{}).Count(&count)
	if count > 0 {
		s.logger.Info("Channels already exist, skipping seed")
		return nil
	}

	var creator user.User
	if err := s.db.Order("id ASC").First(&creator).Error; err != nil {
		return err
	}

	channels := []channel.Channel{
		{
			Name:        "general",
			Description: ptr("Welcome to #general!"),
			CreatedBy:   creator.ID,
			Members:     datatypes.NewJSONSlice([]uint64{creator.ID}),
		},
		{
			Name:        "random",
			Description: ptr("Welcome to #random!"),
			CreatedBy:   creator.ID,
			Members:     datatypes.NewJSONSlice([]uint64{creator.ID}),
		},
	}

	if err := s.db.Create(&channels).Error; err != nil {
		return err
	}

	s.logger.Info("Seeded channels", zap.Int("count", len(channels)))
	return nil
}

func ptr(s string) *string {
	return &s
}
