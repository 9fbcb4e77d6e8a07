package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
	"github.com/JovelRamos/myfi-server/internal/search"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// SearchService runs catalog searches against the full-text index.
type SearchService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st *store.Store, index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{store: st, index: index, logger: logger}
}

// Search returns catalog hits for a free-text query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query cannot be empty")
	}
	return s.index.Search(ctx, query, limit)
}

// DocumentCount reports how many books are currently indexed.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Reindex rebuilds the search index from the current catalog. Called at
// startup and whenever the catalog file is reloaded.
func (s *SearchService) Reindex(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	return s.index.ReplaceAll(books)
}
