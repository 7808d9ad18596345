package profile

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/tutorlyhq/tutorly/core"
	"github.com/tutorlyhq/tutorly/pkg/file"
	"github.com/tutorlyhq/tutorly/pkg/logger"
)

// maxPictureBytes caps profile picture uploads at 5MB.
const maxPictureBytes = 5 << 20

// FileStorage is the subset of pkg/file.Storage the profile service needs.
type FileStorage interface {
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*file.File, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// picturePath derives the storage path for a profile's picture from its
// public URL-independent layout: one directory per user.
func picturePath(p *Profile) string {
	return path.Join("profiles", p.UserID.String(), path.Base(p.ProfilePicture))
}

// UploadPicture stores a new profile picture for the user's profile and
// replaces the previous one. Only image files up to 5MB are accepted.
func (s *Service) UploadPicture(ctx context.Context, userID uuid.UUID, fh *multipart.FileHeader) (*Profile, error) {
	if s.files == nil {
		return nil, errors.New("file storage is not configured")
	}

	if err := file.ValidateSize(fh, maxPictureBytes); err != nil {
		return nil, core.ErrRequestEntityTooLarge.WithMessage("picture must be at most 5MB")
	}
	if !file.IsImage(fh) {
		return nil, core.ErrUnsupportedMediaType.WithMessage("picture must be an image")
	}

	p, err := s.storage.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	oldPath := ""
	if p.ProfilePicture != "" {
		oldPath = picturePath(p)
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), file.SanitizeFilename(fh.Filename))
	newPath := path.Join("profiles", userID.String(), filename)

	if _, err := s.files.Save(ctx, fh, newPath); err != nil {
		return nil, fmt.Errorf("failed to save picture: %w", err)
	}

	p.ProfilePicture = s.files.URL(newPath)
	p.UpdatedAt = time.Now()

	if err := s.storage.UpdateProfile(ctx, p); err != nil {
		// Roll back the orphaned upload; the DB row is the source of truth.
		if delErr := s.files.Delete(ctx, newPath); delErr != nil {
			s.logger.WarnContext(ctx, "failed to clean up orphaned picture", logger.Error(delErr))
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if oldPath != "" && oldPath != newPath {
		if err := s.files.Delete(ctx, oldPath); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous picture", logger.Error(err), logger.ProfileID(p.ID))
		}
	}

	s.logger.InfoContext(ctx, "profile picture updated", logger.ProfileID(p.ID), logger.UserID(userID))

	return p, nil
}
