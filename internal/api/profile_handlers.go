package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// ProfileOutput wraps a user's reading profile. Every list mutation returns
// the full updated profile so clients never need a follow-up read.
type ProfileOutput struct {
	Body domain.ReadingProfile
}

// GetProfileInput identifies one user.
type GetProfileInput struct {
	UserID string `path:"userId" maxLength:"128" doc:"User id"`
}

// AddListBookInput adds a book to one of the user's lists.
type AddListBookInput struct {
	UserID string `path:"userId" maxLength:"128" doc:"User id"`
	Body   struct {
		BookID string `json:"book_id" minLength:"1" doc:"Catalog book id"`
	}
}

// RemoveListBookInput removes a book from one of the user's lists.
type RemoveListBookInput struct {
	UserID string `path:"userId" maxLength:"128" doc:"User id"`
	BookID string `path:"bookId" maxLength:"128" doc:"Catalog book id"`
}

// FinishBookInput marks a book finished with an optional rating.
type FinishBookInput struct {
	UserID string `path:"userId" maxLength:"128" doc:"User id"`
	Body   struct {
		BookID string `json:"book_id" minLength:"1" doc:"Catalog book id"`
		Rating *int   `json:"rating,omitempty" minimum:"1" maximum:"5" doc:"Optional 1-5 rating"`
	}
}

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userId}/profile",
		Summary:     "Get a reading profile",
		Description: "Returns the user's reading lists, creating an empty profile on first access.",
		Tags:        []string{"Profiles"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "add-want-to-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{userId}/want-to-read",
		Summary:     "Add a book to want-to-read",
		Tags:        []string{"Profiles"},
	}, s.handleAddWantToRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "remove-want-to-read",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{userId}/want-to-read/{bookId}",
		Summary:     "Remove a book from want-to-read",
		Tags:        []string{"Profiles"},
	}, s.handleRemoveWantToRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "start-reading",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{userId}/reading",
		Summary:     "Start reading a book",
		Description: "Moves a book onto currently-reading, pulling it off want-to-read if listed.",
		Tags:        []string{"Profiles"},
	}, s.handleStartReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "stop-reading",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/{userId}/reading/{bookId}",
		Summary:     "Stop reading a book",
		Tags:        []string{"Profiles"},
	}, s.handleStopReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "finish-book",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{userId}/finished",
		Summary:     "Mark a book finished",
		Description: "Records a finished book with an optional rating. Repeating re-rates the entry.",
		Tags:        []string{"Profiles"},
	}, s.handleFinishBook)
}

func (s *Server) handleGetProfile(ctx context.Context, input *GetProfileInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleAddWantToRead(ctx context.Context, input *AddListBookInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.AddWantToRead(ctx, input.UserID, input.Body.BookID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleRemoveWantToRead(ctx context.Context, input *RemoveListBookInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.RemoveWantToRead(ctx, input.UserID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleStartReading(ctx context.Context, input *AddListBookInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.StartReading(ctx, input.UserID, input.Body.BookID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleStopReading(ctx context.Context, input *RemoveListBookInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.StopReading(ctx, input.UserID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleFinishBook(ctx context.Context, input *FinishBookInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.FinishBook(ctx, input.UserID, input.Body.BookID, input.Body.Rating)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}
