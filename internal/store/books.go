package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// GetBook retrieves a book by its catalog id.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.Books.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBookNotFound
	}
	return book, err
}

// HasBook reports whether a book id resolves in the catalog.
func (s *Store) HasBook(ctx context.Context, id string) (bool, error) {
	_, err := s.Books.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListBooks returns the whole catalog.
func (s *Store) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list books: %w", err)
		}
		books = append(books, *book)
	}
	return books, nil
}

// GetBooksByIDs resolves ids against the catalog, preserving input order and
// silently dropping ids that do not resolve. Scorer output references books
// the catalog may no longer hold, so misses are expected here.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []string) ([]domain.Book, error) {
	books := make([]domain.Book, 0, len(ids))
	for _, id := range ids {
		book, err := s.Books.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get book %s: %w", id, err)
		}
		books = append(books, *book)
	}
	return books, nil
}

// PutBook creates or replaces a catalog entry.
func (s *Store) PutBook(ctx context.Context, book *domain.Book) error {
	if book.ID == "" {
		return ErrInvalidInput.WithMessage("book id is required")
	}
	return s.Books.Put(ctx, book.ID, book)
}

// ReplaceCatalog atomically-in-effect replaces the catalog contents with the
// given books: existing entries not present in the new set are removed.
// Used by the seed tool and the catalog file watcher.
func (s *Store) ReplaceCatalog(ctx context.Context, books []domain.Book) error {
	incoming := make(map[string]bool, len(books))
	for i := range books {
		if books[i].ID == "" {
			return ErrInvalidInput.WithMessage("book id is required")
		}
		incoming[books[i].ID] = true
	}

	existing, err := s.ListBooks(ctx)
	if err != nil {
		return err
	}
	for i := range existing {
		if !incoming[existing[i].ID] {
			if err := s.Books.Delete(ctx, existing[i].ID); err != nil {
				return fmt.Errorf("remove stale book %s: %w", existing[i].ID, err)
			}
		}
	}

	for i := range books {
		if err := s.Books.Put(ctx, books[i].ID, &books[i]); err != nil {
			return fmt.Errorf("put book %s: %w", books[i].ID, err)
		}
	}

	if s.logger != nil {
		s.logger.Info("catalog replaced", "books", len(books))
	}
	return nil
}
