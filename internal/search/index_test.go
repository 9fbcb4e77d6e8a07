package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	require.NoError(t, idx.ReplaceAll([]domain.Book{
		{ID: "bk1", Title: "Dune", AuthorNames: []string{"Frank Herbert"}, Description: "Spice and sandworms on Arrakis."},
		{ID: "bk2", Title: "Dune Messiah", AuthorNames: []string{"Frank Herbert"}},
		{ID: "bk3", Title: "Hyperion", AuthorNames: []string{"Dan Simmons"}, Description: "Pilgrims tell their tales."},
		{ID: "bk4", Title: "The Left Hand of Darkness", AuthorNames: []string{"Ursula K. Le Guin"}},
	}))
	return idx
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)

	hits, err := idx.Search(context.Background(), "dune", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	assert.Contains(t, ids, "bk1")
	assert.Contains(t, ids, "bk2")
	assert.NotContains(t, ids, "bk3")
	assert.NotEmpty(t, hits[0].Title)
}

func TestSearchByAuthor(t *testing.T) {
	idx := newTestIndex(t)

	hits, err := idx.Search(context.Background(), "simmons", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "bk3", hits[0].ID)
	assert.Equal(t, "Dan Simmons", hits[0].Author)
}

func TestSearchFuzzyTitle(t *testing.T) {
	idx := newTestIndex(t)

	// One-character typo.
	hits, err := idx.Search(context.Background(), "hyperios", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "bk3", hits[0].ID)
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(t)

	hits, err := idx.Search(context.Background(), "dune", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestReplaceAllSwapsCatalog(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.ReplaceAll([]domain.Book{
		{ID: "bk9", Title: "Neuromancer", AuthorNames: []string{"William Gibson"}},
	}))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hits, err := idx.Search(context.Background(), "dune", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
