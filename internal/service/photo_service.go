package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "legumes/internal/errors"
	"legumes/internal/model"
	"legumes/internal/storage"
)

// ErrUploadsDisabled is returned when no bucket is configured.
var ErrUploadsDisabled = errors.New("photo uploads are not configured")

// PhotoUpload tells the client where to PUT a photo and the URL to store afterwards.
type PhotoUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoService presigns vendor photo uploads.
type PhotoService interface {
	PresignUpload(ctx context.Context, actor *model.Account, contentType string) (*PhotoUpload, error)
}

type photoService struct {
	presigner storage.Presigner
}

// NewPhotoService creates a photo service. A nil presigner disables uploads.
func NewPhotoService(presigner storage.Presigner) PhotoService {
	return &photoService{presigner: presigner}
}

func (s *photoService) PresignUpload(ctx context.Context, actor *model.Account, contentType string) (*PhotoUpload, error) {
	if s.presigner == nil {
		return nil, ErrUploadsDisabled
	}
	if actor == nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Unauthorized", nil)
	}
	key := fmt.Sprintf("vendors/%s/%s", actor.ID, uuid.New())
	uploadURL, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "Failed to prepare upload", err)
	}
	return &PhotoUpload{
		Key:       key,
		UploadURL: uploadURL,
		PublicURL: s.presigner.PublicURL(key),
		ExpiresAt: time.Now().Add(storage.UploadExpiry),
	}, nil
}
