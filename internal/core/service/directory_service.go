package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
)

// DirectoryService browses the artisan catalog and manages profile edits
// and image uploads for both roles.
type DirectoryService struct {
	artisans ports.ArtisanAPI
	users    ports.UserAPI
	session  *SessionService
	log      zerolog.Logger
}

func NewDirectoryService(artisans ports.ArtisanAPI, users ports.UserAPI, session *SessionService, log zerolog.Logger) *DirectoryService {
	return &DirectoryService{artisans: artisans, users: users, session: session, log: log}
}

// Search lists artisans, optionally filtered by category and proximity.
// Coordinates are only applied as a pair.
func (s *DirectoryService) Search(ctx context.Context, filter ports.ArtisanSearch) ([]*domain.User, error) {
	return s.artisans.Search(ctx, filter)
}

// UpdateProfile applies a partial profile update for the current user,
// picking the resource group by role, and re-caches the returned record.
func (s *DirectoryService) UpdateProfile(ctx context.Context, update ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated *domain.User
	if user.IsArtisan() {
		updated, err = s.artisans.UpdateProfile(ctx, user.ID, update)
	} else {
		updated, err = s.users.UpdateProfile(ctx, user.ID, update)
	}
	if err != nil {
		return nil, err
	}

	if err := s.session.SaveUser(ctx, updated); err != nil {
		s.log.Warn().Err(err).Msg("failed to re-cache updated profile")
	}
	return updated, nil
}

// UploadImage uploads an avatar or portfolio image for the current user and
// returns its absolute URL.
func (s *DirectoryService) UploadImage(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", errors.New("an image file is required")
	}
	user, err := s.session.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user.IsArtisan() {
		return s.artisans.UploadImage(ctx, path)
	}
	return s.users.UploadImage(ctx, path)
}
