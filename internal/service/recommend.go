package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JovelRamos/myfi-server/internal/domain"
	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
	"github.com/JovelRamos/myfi-server/internal/scorer"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// Trigger is a normalized recommendation request. UserID is optional;
// AnchorIDs feed the content-based engine and are ignored when routing
// selects the collaborative engine.
type Trigger struct {
	UserID    string
	AnchorIDs []string
}

// UnknownBookError reports an anchor id that does not resolve to a catalog
// book. The router fails fast on it without invoking any engine.
type UnknownBookError struct {
	ID string
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unknown anchor book %q", e.ID)
}

// RecommendationService routes recommendation requests to a scoring engine
// based on how much rating signal the user has accumulated, and keeps the
// user's saved recommendation set current.
type RecommendationService struct {
	store          *store.Store
	content        scorer.Scorer
	collaborative  scorer.Scorer
	ratedThreshold int
	logger         *slog.Logger
}

// NewRecommendationService creates a new recommendation router. Users with
// ratedThreshold or more rated finished books are routed to the
// collaborative engine.
func NewRecommendationService(st *store.Store, content, collaborative scorer.Scorer, ratedThreshold int, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:          st,
		content:        content,
		collaborative:  collaborative,
		ratedThreshold: ratedThreshold,
		logger:         logger,
	}
}

// Recommend selects a scoring strategy for the trigger, runs it, and
// persists the result as the user's saved recommendation set. The saved set
// is replaced wholesale on every successful run; a persistence failure is
// logged and swallowed so recommendation delivery never depends on the
// write succeeding.
func (s *RecommendationService) Recommend(ctx context.Context, trigger Trigger) ([]domain.ScoredBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, anchorID := range trigger.AnchorIDs {
		ok, err := s.store.HasBook(ctx, anchorID)
		if err != nil {
			return nil, fmt.Errorf("resolve anchor %s: %w", anchorID, err)
		}
		if !ok {
			return nil, &UnknownBookError{ID: anchorID}
		}
	}

	engine, args, kind := s.selectEngine(ctx, trigger)
	if len(args) == 0 {
		return nil, domainerrors.Validation("at least one anchor book is required")
	}

	results, err := engine.Score(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s engine: %w", kind, err)
	}

	if trigger.UserID != "" {
		bookIDs := make([]string, len(results))
		for i, r := range results {
			bookIDs[i] = r.ID
		}
		if err := s.store.ReplaceRecommendations(ctx, trigger.UserID, bookIDs); err != nil {
			s.logger.Warn("failed to save recommendations",
				"user_id", trigger.UserID,
				"error", err)
		}
	}

	return results, nil
}

// selectEngine applies the strategy threshold. Collaborative filtering
// needs a known rating history, so an anonymous trigger is always
// content-based, as is any user below the threshold or without a profile.
func (s *RecommendationService) selectEngine(ctx context.Context, trigger Trigger) (scorer.Scorer, []string, scorer.EngineKind) {
	if trigger.UserID == "" {
		return s.content, trigger.AnchorIDs, scorer.EngineContentBased
	}

	profile, err := s.store.GetProfile(ctx, trigger.UserID)
	if err != nil {
		return s.content, trigger.AnchorIDs, scorer.EngineContentBased
	}

	if profile.RatedFinishedCount() >= s.ratedThreshold {
		return s.collaborative, []string{trigger.UserID}, scorer.EngineCollaborative
	}
	return s.content, trigger.AnchorIDs, scorer.EngineContentBased
}

// Saved returns the user's last computed recommendation set with its ids
// resolved against the catalog. Ids that no longer resolve are dropped.
func (s *RecommendationService) Saved(ctx context.Context, userID string) (*domain.SavedRecommendations, []domain.Book, error) {
	saved, err := s.store.GetRecommendations(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	books, err := s.store.GetBooksByIDs(ctx, saved.BookIDs)
	if err != nil {
		return nil, nil, err
	}
	return saved, books, nil
}
