// Package catalog imports the book catalog from the data-collection
// pipeline's JSON export and keeps the store and search index in sync with
// it.
package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/JovelRamos/myfi-server/internal/domain"
	"github.com/JovelRamos/myfi-server/internal/search"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// entry mirrors one exported book document. The export has drifted across
// scraper versions, so identity and cover fields accept the known variants.
type entry struct {
	ID               string   `json:"id"`
	MongoID          string   `json:"_id"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_names"`
	CoverID          coverRef `json:"cover_id"`
	CoverEditionKey  coverRef `json:"cover_edition_key"`
	RatingsAverage   float64  `json:"ratings_average"`
	RatingsCount     int      `json:"ratings_count"`
	FirstPublishYear int      `json:"first_publish_year"`
	Description      string   `json:"description"`
}

type coverRef string

func (c *coverRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*c = coverRef(unquoted)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("cover reference is neither string nor number: %s", s)
	}
	*c = coverRef(s)
	return nil
}

func (e *entry) book() (domain.Book, error) {
	id := e.ID
	if id == "" {
		id = e.MongoID
	}
	if id == "" {
		return domain.Book{}, fmt.Errorf("entry %q has no id", e.Title)
	}
	if e.Title == "" {
		return domain.Book{}, fmt.Errorf("entry %s has no title", id)
	}
	cover := string(e.CoverID)
	if cover == "" {
		cover = string(e.CoverEditionKey)
	}
	return domain.Book{
		ID:               id,
		Title:            e.Title,
		AuthorNames:      e.AuthorNames,
		CoverID:          cover,
		RatingsAverage:   e.RatingsAverage,
		RatingsCount:     e.RatingsCount,
		FirstPublishYear: e.FirstPublishYear,
		Description:      e.Description,
	}, nil
}

// Importer loads catalog files into the store and rebuilds the search
// index afterwards.
type Importer struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewImporter creates a catalog importer. The search index may be nil when
// no index should be maintained (the seed tool runs without one).
func NewImporter(st *store.Store, index *search.Index, logger *slog.Logger) *Importer {
	return &Importer{store: st, index: index, logger: logger}
}

// ImportFile replaces the stored catalog with the contents of a JSON
// export file. The file must hold a single array of book documents;
// individually invalid entries are skipped with a warning rather than
// failing the import.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	var entries []entry
	if err := json.UnmarshalRead(f, &entries); err != nil {
		return 0, fmt.Errorf("decode catalog file: %w", err)
	}

	books := make([]domain.Book, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i := range entries {
		book, err := entries[i].book()
		if err != nil {
			im.logger.Warn("skipping catalog entry", "error", err)
			continue
		}
		if seen[book.ID] {
			im.logger.Warn("skipping duplicate catalog entry", "book_id", book.ID)
			continue
		}
		seen[book.ID] = true
		books = append(books, book)
	}

	if err := im.store.ReplaceCatalog(ctx, books); err != nil {
		return 0, fmt.Errorf("replace catalog: %w", err)
	}

	if im.index != nil {
		if err := im.index.ReplaceAll(books); err != nil {
			return 0, fmt.Errorf("rebuild search index: %w", err)
		}
	}

	im.logger.Info("catalog imported", "path", path, "books", len(books), "skipped", len(entries)-len(books))
	return len(books), nil
}
