package store

import (
	"context"
	"errors"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// GetProfile retrieves a user's reading profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.ReadingProfile, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return profile, err
}

// GetOrCreateProfile retrieves a user's reading profile, creating an empty
// one on first access.
func (s *Store) GetOrCreateProfile(ctx context.Context, userID string) (*domain.ReadingProfile, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	profile = domain.NewReadingProfile(userID)
	if err := s.Profiles.Put(ctx, userID, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// PutProfile writes a user's reading profile.
func (s *Store) PutProfile(ctx context.Context, profile *domain.ReadingProfile) error {
	if profile.UserID == "" {
		return ErrInvalidInput.WithMessage("user id is required")
	}
	return s.Profiles.Put(ctx, profile.UserID, profile)
}
