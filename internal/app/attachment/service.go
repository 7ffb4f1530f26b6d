package attachment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const urlExpiry = time.Hour

// Presigner is the download-URL slice of the object-storage provider.
type Presigner interface {
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type Service interface {
	Save(req SaveAttachmentRequest) (*Attachment, error)
	// GetByID returns the metadata with a presigned download URL.
	GetByID(ctx context.Context, id uint64) (*Attachment, error)
	ListByChannel(ctx context.Context, channelID uint64) ([]*Attachment, error)
}

type service struct {
	repo      Repository
	presigner Presigner
	logger    *zap.SugaredLogger
}

func NewService(repo Repository, presigner Presigner, logger *zap.Logger) Service {
	return &service{repo: repo, presigner: presigner, logger: logger.Sugar()}
}

func (s *service) Save(req SaveAttachmentRequest) (*Attachment, error) {
	a := &Attachment{
		FileName:   req.FileName,
		FileType:   req.FileType,
		FileSize:   req.FileSize,
		StorageKey: req.StorageKey,
		UploadedBy: req.UploadedBy,
		ChannelID:  req.ChannelID,
	}
	if err := s.repo.Create(a); err != nil {
		return nil, fmt.Errorf("failed to save attachment: %w", err)
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*Attachment, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.sign(ctx, a)
	return a, nil
}

func (s *service) ListByChannel(ctx context.Context, channelID uint64) ([]*Attachment, error) {
	attachments, err := s.repo.ListByChannel(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	for _, a := range attachments {
		s.sign(ctx, a)
	}
	return attachments, nil
}

// sign fills the presigned URL; a signing failure leaves the metadata
// usable without a download link.
func (s *service) sign(ctx context.Context, a *Attachment) {
	url, err := s.presigner.PresignedURL(ctx, a.StorageKey, urlExpiry)
	if err != nil {
		s.logger.Warnw("Failed to presign attachment URL", "key", a.StorageKey, "error", err)
		return
	}
	a.URL = url
}
