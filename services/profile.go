package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fuelmate-api/models"
	"fuelmate-api/storage"
	"fuelmate-api/store"

	"go.uber.org/zap"
)

// PictureStore persists profile pictures and addresses them by public path
type PictureStore interface {
	SaveProfilePicture(userID, ext string, src io.Reader) (string, error)
	Remove(publicPath string) error
}

type UpdateProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	models.DriverDetails
}

type ProfileService struct {
	users    store.UserRepository
	pictures PictureStore
	maxBytes int64
	log      *zap.Logger
}

func NewProfileService(users store.UserRepository, pictures PictureStore, maxBytes int64, log *zap.Logger) *ProfileService {
	return &ProfileService{users: users, pictures: pictures, maxBytes: maxBytes, log: log}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// Update changes the supplied fields; empty values keep what is stored
func (s *ProfileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = phone
	}
	if user.Role == models.RoleDriver {
		user.ApplyDriverDetails(in.DriverDetails)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// UploadPicture stores a new picture, points the user at it and only then drops the old file
func (s *ProfileService) UploadPicture(ctx context.Context, userID, filename string, size int64, src io.Reader) (string, error) {
	ext := storage.ExtFromFilename(filename)
	if !storage.IsAllowedImage(ext) {
		return "", fmt.Errorf("%w: only image files are allowed (jpg, jpeg, png, gif, webp)", ErrValidation)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, s.maxBytes)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	public, err := s.pictures.SaveProfilePicture(user.ID, ext, src)
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, s.maxBytes)
	case errors.Is(err, storage.ErrInvalidFileType):
		return "", fmt.Errorf("%w: only image files are allowed (jpg, jpeg, png, gif, webp)", ErrValidation)
	case err != nil:
		return "", fmt.Errorf("save picture: %w", err)
	}

	old := user.ProfilePicture
	user.ProfilePicture = &public
	if err := s.users.Update(ctx, user); err != nil {
		s.removeQuietly(public)
		return "", notFound(err, "user")
	}
	if old != nil && *old != "" {
		s.removeQuietly(*old)
	}
	return public, nil
}

func (s *ProfileService) DeletePicture(ctx context.Context, userID string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.ProfilePicture == nil || *user.ProfilePicture == "" {
		return fmt.Errorf("%w: no profile picture to delete", ErrValidation)
	}
	old := *user.ProfilePicture
	user.ProfilePicture = nil
	if err := s.users.Update(ctx, user); err != nil {
		return notFound(err, "user")
	}
	s.removeQuietly(old)
	return nil
}

func (s *ProfileService) removeQuietly(publicPath string) {
	if err := s.pictures.Remove(publicPath); err != nil {
		s.log.Warn("remove profile picture", zap.String("path", publicPath), zap.Error(err))
	}
}
