package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/JovelRamos/myfi-server/internal/domain"
	"github.com/JovelRamos/myfi-server/internal/service"
)

// RecommendRequest triggers a recommendation run. AnchorIDs seed the
// content-based engine; when the user's rating history crosses the
// collaborative threshold the anchors are ignored in favor of the history.
type RecommendRequest struct {
	UserID    string   `json:"user_id,omitempty" maxLength:"128" doc:"Optional user id; anonymous requests are never persisted" validate:"omitempty,min=1"`
	AnchorIDs []string `json:"anchor_ids" minItems:"1" doc:"Catalog book ids to anchor on" validate:"required,min=1,dive,required"`
}

// RecommendInput wraps the trigger body.
type RecommendInput struct {
	Body RecommendRequest
}

// RecommendOutput wraps a freshly computed recommendation list.
type RecommendOutput struct {
	Body struct {
		Results []domain.ScoredBook `json:"results" doc:"Scored books in engine output order"`
	}
}

// SavedRecommendationsInput identifies one user's saved set.
type SavedRecommendationsInput struct {
	UserID string `path:"userId" maxLength:"128" doc:"User id"`
}

// SavedRecommendationsOutput wraps the user's last computed set with the
// ids resolved against the current catalog.
type SavedRecommendationsOutput struct {
	Body struct {
		UserID    string        `json:"user_id"`
		Books     []domain.Book `json:"books" doc:"Resolved books; stale ids are dropped"`
		UpdatedAt time.Time     `json:"updated_at" doc:"When the set was last computed"`
	}
}

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-recommendations",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations",
		Summary:     "Compute recommendations",
		Description: "Routes the request to a scoring engine and, for known users, replaces the saved set.",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommend)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-saved-recommendations",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userId}/recommendations",
		Summary:     "Get saved recommendations",
		Tags:        []string{"Recommendations"},
	}, s.handleSavedRecommendations)
}

func (s *Server) handleRecommend(ctx context.Context, input *RecommendInput) (*RecommendOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	results, err := s.services.Recommendation.Recommend(ctx, service.Trigger{
		UserID:    input.Body.UserID,
		AnchorIDs: input.Body.AnchorIDs,
	})
	if err != nil {
		return nil, err
	}

	resp := &RecommendOutput{}
	resp.Body.Results = results
	return resp, nil
}

func (s *Server) handleSavedRecommendations(ctx context.Context, input *SavedRecommendationsInput) (*SavedRecommendationsOutput, error) {
	saved, books, err := s.services.Recommendation.Saved(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	resp := &SavedRecommendationsOutput{}
	resp.Body.UserID = saved.UserID
	resp.Body.Books = books
	resp.Body.UpdatedAt = saved.UpdatedAt
	return resp, nil
}
