package store

import (
	"context"
	"errors"
	"time"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// ReplaceRecommendations overwrites the user's saved recommendation set
// wholesale. There is deliberately no append variant: repeated calls must
// leave exactly the last computed list, never a union of past runs.
// Concurrent callers race with last-writer-wins semantics.
func (s *Store) ReplaceRecommendations(ctx context.Context, userID string, bookIDs []string) error {
	if userID == "" {
		return ErrInvalidInput.WithMessage("user id is required")
	}
	if bookIDs == nil {
		bookIDs = []string{}
	}
	return s.Recommendations.Put(ctx, userID, &domain.SavedRecommendations{
		UserID:    userID,
		BookIDs:   bookIDs,
		UpdatedAt: time.Now(),
	})
}

// GetRecommendations returns the user's last saved recommendation set.
func (s *Store) GetRecommendations(ctx context.Context, userID string) (*domain.SavedRecommendations, error) {
	recs, err := s.Recommendations.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoSavedRecs
	}
	return recs, err
}
