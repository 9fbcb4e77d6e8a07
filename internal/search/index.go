// Package search provides full-text catalog search using Bleve.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// Index is an in-memory full-text index over the catalog. The catalog is
// small and rebuilt wholesale on every reload, so the index lives in memory
// and is swapped atomically rather than patched in place.
//
// All public methods are safe for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// Hit is a single search result.
type Hit struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author,omitempty"`
	Score  float64 `json:"score"`
}

// NewIndex creates an empty in-memory catalog index.
func NewIndex(logger *slog.Logger) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// ReplaceAll rebuilds the index from the given catalog and swaps it in.
func (s *Index) ReplaceAll(books []domain.Book) error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	const batchSize = 500
	for i := 0; i < len(books); i += batchSize {
		end := min(i+batchSize, len(books))
		batch := idx.NewBatch()
		for _, b := range books[i:end] {
			if err := batch.Index(b.ID, bookDocument(b)); err != nil {
				return fmt.Errorf("batch index %s: %w", b.ID, err)
			}
		}
		if err := idx.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}

	s.mu.Lock()
	old := s.index
	s.index = idx
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		s.logger.Warn("failed to close previous search index", "error", err)
	}
	s.logger.Info("search index rebuilt", "documents", len(books))
	return nil
}

// Search runs a free-text query over titles and authors.
func (s *Index) Search(ctx context.Context, text string, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildQuery(text), limit, 0, false)
	req.Fields = []string{"title", "author"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		if title, ok := h.Fields["title"].(string); ok {
			hit.Title = title
		}
		if author, ok := h.Fields["author"].(string); ok {
			hit.Author = author
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DocumentCount returns the number of indexed books.
func (s *Index) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

func bookDocument(b domain.Book) map[string]any {
	return map[string]any{
		"id":          b.ID,
		"title":       b.Title,
		"author":      strings.Join(b.AuthorNames, " "),
		"description": b.Description,
		"year":        b.FirstPublishYear,
	}
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	docMapping.AddFieldMappingsAt("title", titleField)

	authorField := bleve.NewTextFieldMapping()
	authorField.Analyzer = en.AnalyzerName
	authorField.Store = true
	docMapping.AddFieldMappingsAt("author", authorField)

	// Searchable but not stored, descriptions can be large.
	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	descField.Store = false
	docMapping.AddFieldMappingsAt("description", descField)

	idField := bleve.NewTextFieldMapping()
	idField.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idField)

	yearField := bleve.NewNumericFieldMapping()
	yearField.Store = true
	docMapping.AddFieldMappingsAt("year", yearField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// buildQuery matches titles hardest, then authors, with fuzzy and prefix
// variants on the title for typo tolerance and autocomplete.
func buildQuery(text string) query.Query {
	titleMatch := bleve.NewMatchQuery(text)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(text)
	authorMatch.SetField("author")
	authorMatch.SetBoost(1.5)

	descMatch := bleve.NewMatchQuery(text)
	descMatch.SetField("description")
	descMatch.SetBoost(0.5)

	queries := []query.Query{titleMatch, authorMatch, descMatch}

	fuzzy := bleve.NewFuzzyQuery(text)
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title")
	fuzzy.SetBoost(0.8)
	queries = append(queries, fuzzy)

	if len(text) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
