package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JovelRamos/myfi-server/internal/domain"
	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// ProfileService manages a user's three reading lists.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(st *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: st, logger: logger}
}

// GetProfile returns a user's reading profile, creating an empty one on
// first access.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.ReadingProfile, error) {
	return s.store.GetOrCreateProfile(ctx, userID)
}

// AddWantToRead appends a book to the user's want-to-read list. Adding a
// book that is already listed is a no-op, not an error.
func (s *ProfileService) AddWantToRead(ctx context.Context, userID, bookID string) (*domain.ReadingProfile, error) {
	return s.update(ctx, userID, bookID, func(p *domain.ReadingProfile) {
		p.AddWantToRead(bookID)
	})
}

// RemoveWantToRead removes a book from the user's want-to-read list.
func (s *ProfileService) RemoveWantToRead(ctx context.Context, userID, bookID string) (*domain.ReadingProfile, error) {
	return s.update(ctx, userID, bookID, func(p *domain.ReadingProfile) {
		p.RemoveWantToRead(bookID)
	})
}

// StartReading moves a book onto the currently-reading list, pulling it off
// want-to-read if it was there.
func (s *ProfileService) StartReading(ctx context.Context, userID, bookID string) (*domain.ReadingProfile, error) {
	return s.update(ctx, userID, bookID, func(p *domain.ReadingProfile) {
		p.StartReading(bookID)
	})
}

// StopReading drops a book from the currently-reading list without marking
// it finished.
func (s *ProfileService) StopReading(ctx context.Context, userID, bookID string) (*domain.ReadingProfile, error) {
	return s.update(ctx, userID, bookID, func(p *domain.ReadingProfile) {
		p.StopReading(bookID)
	})
}

// FinishBook records a book as finished with an optional 1..5 rating. A
// repeat call re-rates the existing entry.
func (s *ProfileService) FinishBook(ctx context.Context, userID, bookID string, rating *int) (*domain.ReadingProfile, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, domainerrors.Validationf("rating must be between 1 and 5, got %d", *rating)
	}
	return s.update(ctx, userID, bookID, func(p *domain.ReadingProfile) {
		p.FinishBook(bookID, rating)
	})
}

func (s *ProfileService) update(ctx context.Context, userID, bookID string, mutate func(*domain.ReadingProfile)) (*domain.ReadingProfile, error) {
	ok, err := s.store.HasBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("resolve book %s: %w", bookID, err)
	}
	if !ok {
		return nil, store.ErrBookNotFound
	}

	profile, err := s.store.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	mutate(profile)

	if err := s.store.PutProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}
