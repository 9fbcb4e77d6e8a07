package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/JovelRamos/myfi-server/internal/domain"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// BookService exposes catalog reads.
type BookService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st *store.Store, logger *slog.Logger) *BookService {
	return &BookService{store: st, logger: logger}
}

// GetBook returns one catalog book by id.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// ListBooks returns the catalog sorted by title.
func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}
