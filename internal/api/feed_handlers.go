package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// FeedInput identifies the user whose feed to assemble.
type FeedInput struct {
	UserID string `path:"userId" maxLength:"128" doc:"User id"`
}

// FeedOutput wraps an assembled feed. Shelves arrive in display order with
// row-aligned book counts and no book repeated across shelves.
type FeedOutput struct {
	Body struct {
		Shelves []domain.Shelf `json:"shelves"`
	}
}

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-feed",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userId}/feed",
		Summary:     "Assemble a personalized feed",
		Description: "Builds the user's shelf feed fresh from the catalog, their profile, and the recommendation engines.",
		Tags:        []string{"Feed"},
	}, s.handleFeed)
}

func (s *Server) handleFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	shelves, err := s.services.Feed.BuildFeed(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	resp := &FeedOutput{}
	resp.Body.Shelves = shelves
	return resp, nil
}
