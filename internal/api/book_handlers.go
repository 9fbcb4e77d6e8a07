package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/JovelRamos/myfi-server/internal/domain"
	"github.com/JovelRamos/myfi-server/internal/search"
)

// ListBooksOutput wraps the catalog listing.
type ListBooksOutput struct {
	Body struct {
		Books []domain.Book `json:"books" doc:"Catalog books sorted by title"`
		Total int           `json:"total" doc:"Number of books in the catalog"`
	}
}

// GetBookInput identifies one catalog book.
type GetBookInput struct {
	ID string `path:"id" maxLength:"128" doc:"Book id"`
}

// GetBookOutput wraps a single book.
type GetBookOutput struct {
	Body domain.Book
}

// SearchInput holds search query parameters.
type SearchInput struct {
	Query string `query:"q" required:"true" doc:"Free-text search query"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum hits to return"`
}

// SearchOutput wraps search hits.
type SearchOutput struct {
	Body struct {
		Query string       `json:"query" doc:"The executed query"`
		Hits  []search.Hit `json:"hits" doc:"Matching books, best first"`
	}
}

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List catalog books",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-book",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get a book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-books",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the catalog",
		Description: "Full-text search over titles, authors, and descriptions.",
		Tags:        []string{"Books"},
	}, s.handleSearch)
}

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*ListBooksOutput, error) {
	books, err := s.services.Book.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	resp := &ListBooksOutput{}
	resp.Body.Books = books
	resp.Body.Total = len(books)
	return resp, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*GetBookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetBookOutput{Body: *book}, nil
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	hits, err := s.services.Search.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	resp := &SearchOutput{}
	resp.Body.Query = input.Query
	resp.Body.Hits = hits
	return resp, nil
}
