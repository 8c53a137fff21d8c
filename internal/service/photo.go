package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	domainerrors "github.com/mokjangapp/mokjang-server/internal/errors"
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
	"github.com/mokjangapp/mokjang-server/internal/store"
)

// maxPhotoBytes caps uploaded photo size at 8 MiB.
const maxPhotoBytes = 8 << 20

// PhotoService stores member profile photos on disk and records the
// file key plus blurhash placeholder on the member row.
type PhotoService struct {
	store   store.Store
	storage *photos.Storage
	logger  *slog.Logger
}

// NewPhotoService creates a new photo service.
func NewPhotoService(st store.Store, storage *photos.Storage, logger *slog.Logger) *PhotoService {
	return &PhotoService{store: st, storage: storage, logger: logger}
}

// PhotoResult describes a stored photo.
type PhotoResult struct {
	Key      string `json:"key"`
	BlurHash string `json:"blurhash"`
	ETag     string `json:"etag"`
}

// Upload saves a new photo for a member, replacing any previous one.
func (s *PhotoService) Upload(ctx context.Context, memberID string, imgData []byte) (*PhotoResult, error) {
	if len(imgData) == 0 {
		return nil, domainerrors.Validation("photo data is empty")
	}
	if len(imgData) > maxPhotoBytes {
		return nil, domainerrors.Validation("photo exceeds the 8 MiB limit")
	}

	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("member %q not found", memberID)
		}
		return nil, err
	}

	blurHash, err := photos.ComputeBlurHash(imgData)
	if err != nil {
		return nil, domainerrors.Validation("photo is not a decodable image")
	}

	key := uuid.NewString()
	if err := s.storage.Save(key, imgData); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	oldKey := member.PhotoPath
	if err := s.store.UpdateMemberPhoto(ctx, memberID, key, blurHash); err != nil {
		// Keep the row consistent: drop the orphaned file.
		if rmErr := s.storage.Delete(key); rmErr != nil {
			s.logger.Warn("failed to remove orphaned photo", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("update member photo: %w", err)
	}
	if oldKey != "" && oldKey != key {
		if err := s.storage.Delete(oldKey); err != nil {
			s.logger.Warn("failed to remove replaced photo", "key", oldKey, "error", err)
		}
	}

	etag, err := s.storage.Hash(key)
	if err != nil {
		return nil, fmt.Errorf("hash photo: %w", err)
	}
	return &PhotoResult{Key: key, BlurHash: blurHash, ETag: etag}, nil
}

// Get returns a member's photo bytes and its content hash.
func (s *PhotoService) Get(ctx context.Context, memberID string) ([]byte, string, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", domainerrors.NotFoundf("member %q not found", memberID)
		}
		return nil, "", err
	}
	if member.PhotoPath == "" || !s.storage.Exists(member.PhotoPath) {
		return nil, "", domainerrors.NotFound("member has no photo")
	}

	data, err := s.storage.Get(member.PhotoPath)
	if err != nil {
		return nil, "", fmt.Errorf("read photo: %w", err)
	}
	etag, err := s.storage.Hash(member.PhotoPath)
	if err != nil {
		return nil, "", fmt.Errorf("hash photo: %w", err)
	}
	return data, etag, nil
}

// Delete removes a member's photo from disk and clears the row fields.
func (s *PhotoService) Delete(ctx context.Context, memberID string) error {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("member %q not found", memberID)
		}
		return err
	}
	if member.PhotoPath == "" {
		return nil
	}

	if err := s.store.UpdateMemberPhoto(ctx, memberID, "", ""); err != nil {
		return fmt.Errorf("clear member photo: %w", err)
	}
	if err := s.storage.Delete(member.PhotoPath); err != nil {
		s.logger.Warn("failed to remove photo file", "key", member.PhotoPath, "error", err)
	}
	return nil
}
