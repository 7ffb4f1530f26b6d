package channel

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Service interface {
	Create(name string, createdBy uint64) (*Channel, error)
	GetByID(id uint64) (*Channel, error)
	List() ([]*Channel, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(name string, createdBy uint64) (*Channel, error) {
	description := fmt.Sprintf("Welcome to #%s!", name)
	channel := &Channel{
		Name:        name,
		Description: &description,
		CreatedBy:   createdBy,
		IsPrivate:   false,
		Members:     datatypes.NewJSONSlice([]uint64{createdBy}),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(channel); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	return channel, nil
}

func (s *service) GetByID(id uint64) (*Channel, error) {
	return s.repo.GetByID(id)
}

func (s *service) List() ([]*Channel, error) {
	return s.repo.List()
}
