package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JovelRamos/myfi-server/internal/search"
	"github.com/JovelRamos/myfi-server/internal/store"
)

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewIndex(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return NewImporter(st, idx, logger), st
}

func writeCatalog(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "books.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCatalog = `[
	{"_id": "bk1", "title": "Dune", "author_names": ["Frank Herbert"], "cover_id": 11481354, "ratings_average": 4.25, "ratings_count": 1200000, "first_publish_year": 1965},
	{"id": "bk2", "title": "Hyperion", "author_names": ["Dan Simmons"], "cover_edition_key": "OL7826547M", "ratings_average": 4.2, "ratings_count": 250000},
	{"title": "No Identity"},
	{"_id": "bk1", "title": "Dune (duplicate)"}
]`

func TestImportFile(t *testing.T) {
	im, st := newTestImporter(t)
	path := writeCatalog(t, t.TempDir(), sampleCatalog)

	count, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "entries without an id and duplicates are skipped")

	dune, err := st.GetBook(context.Background(), "bk1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "11481354", dune.CoverID, "numeric covers are normalized to strings")
	assert.Equal(t, 1965, dune.FirstPublishYear)

	hyperion, err := st.GetBook(context.Background(), "bk2")
	require.NoError(t, err)
	assert.Equal(t, "OL7826547M", hyperion.CoverID)
}

func TestImportFileReplacesCatalog(t *testing.T) {
	im, st := newTestImporter(t)
	dir := t.TempDir()

	path := writeCatalog(t, dir, sampleCatalog)
	_, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)

	path = writeCatalog(t, dir, `[{"id": "bk9", "title": "Neuromancer", "author_names": ["William Gibson"]}]`)
	count, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = st.GetBook(context.Background(), "bk1")
	assert.ErrorIs(t, err, store.ErrBookNotFound, "a reimport drops stale books")

	books, err := st.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "bk9", books[0].ID)
}

func TestImportFileBadJSON(t *testing.T) {
	im, _ := newTestImporter(t)
	path := writeCatalog(t, t.TempDir(), `{"not": "an array"`)

	_, err := im.ImportFile(context.Background(), path)
	assert.Error(t, err)
}

func TestImportFileMissing(t *testing.T) {
	im, _ := newTestImporter(t)

	_, err := im.ImportFile(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestReloaderPicksUpRewrite(t *testing.T) {
	im, st := newTestImporter(t)
	dir := t.TempDir()
	path := writeCatalog(t, dir, `[{"id": "bk1", "title": "Dune", "author_names": ["Frank Herbert"]}]`)

	_, err := im.ImportFile(context.Background(), path)
	require.NoError(t, err)

	reloader := NewReloader(im, path, slog.New(slog.DiscardHandler))
	reloader.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = reloader.Run(ctx)
	}()

	// Give the watcher a moment to register before rewriting.
	time.Sleep(100 * time.Millisecond)
	writeCatalog(t, dir, `[{"id": "bk2", "title": "Hyperion", "author_names": ["Dan Simmons"]}]`)

	require.Eventually(t, func() bool {
		_, err := st.GetBook(context.Background(), "bk2")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond, "reloader should import the rewritten file")

	_, err = st.GetBook(context.Background(), "bk1")
	assert.ErrorIs(t, err, store.ErrBookNotFound)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloader did not stop on context cancellation")
	}
}
