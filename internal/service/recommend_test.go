package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JovelRamos/myfi-server/internal/domain"
	"github.com/JovelRamos/myfi-server/internal/scorer"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// fakeScorer is an in-process engine. It records the args of every call so
// tests can assert on routing.
type fakeScorer struct {
	results []domain.ScoredBook
	err     error
	calls   [][]string
}

func (f *fakeScorer) Score(_ context.Context, args []string) ([]domain.ScoredBook, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func scored(ids ...string) []domain.ScoredBook {
	out := make([]domain.ScoredBook, len(ids))
	for i, id := range ids {
		out[i] = domain.ScoredBook{ID: id, Title: "Title " + id, Score: 0.5}
	}
	return out
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedBooks(t *testing.T, st *store.Store, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, st.PutBook(context.Background(), &domain.Book{
			ID:          id,
			Title:       "Title " + id,
			AuthorNames: []string{"Author " + id},
		}))
	}
}

func seedRatedProfile(t *testing.T, st *store.Store, userID string, rated int) {
	t.Helper()
	profile := domain.NewReadingProfile(userID)
	for i := 0; i < rated; i++ {
		rating := 5
		profile.Finished = append(profile.Finished, domain.FinishedBook{
			BookID: fmt.Sprintf("finished%d", i),
			Rating: &rating,
		})
	}
	require.NoError(t, st.PutProfile(context.Background(), profile))
}

func newTestRecommender(t *testing.T, st *store.Store, content, collaborative scorer.Scorer) *RecommendationService {
	t.Helper()
	return NewRecommendationService(st, content, collaborative, 10, slog.New(slog.DiscardHandler))
}

func TestRecommendContentBasedForAnonymous(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1", "bk2")

	content := &fakeScorer{results: scored("bk2")}
	collaborative := &fakeScorer{}
	svc := newTestRecommender(t, st, content, collaborative)

	results, err := svc.Recommend(context.Background(), Trigger{AnchorIDs: []string{"bk1"}})
	require.NoError(t, err)
	assert.Equal(t, scored("bk2"), results)

	require.Len(t, content.calls, 1)
	assert.Equal(t, []string{"bk1"}, content.calls[0])
	assert.Empty(t, collaborative.calls)
}

func TestRecommendStrategyThreshold(t *testing.T) {
	tests := []struct {
		name          string
		rated         int
		collaborative bool
	}{
		{"nine rated stays content-based", 9, false},
		{"ten rated switches to collaborative", 10, true},
		{"above threshold stays collaborative", 25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			seedBooks(t, st, "bk1")
			seedRatedProfile(t, st, "user1", tt.rated)

			content := &fakeScorer{results: scored("bk1")}
			collaborative := &fakeScorer{results: scored("bk1")}
			svc := newTestRecommender(t, st, content, collaborative)

			_, err := svc.Recommend(context.Background(), Trigger{
				UserID:    "user1",
				AnchorIDs: []string{"bk1"},
			})
			require.NoError(t, err)

			if tt.collaborative {
				require.Len(t, collaborative.calls, 1)
				assert.Equal(t, []string{"user1"}, collaborative.calls[0], "collaborative engine takes the user id, not the anchors")
				assert.Empty(t, content.calls)
			} else {
				require.Len(t, content.calls, 1)
				assert.Equal(t, []string{"bk1"}, content.calls[0])
				assert.Empty(t, collaborative.calls)
			}
		})
	}
}

func TestRecommendUnratedFinishedDoNotCount(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1")

	// 10 finished entries but only 9 rated.
	profile := domain.NewReadingProfile("user1")
	for i := 0; i < 10; i++ {
		f := domain.FinishedBook{BookID: fmt.Sprintf("finished%d", i)}
		if i < 9 {
			rating := 4
			f.Rating = &rating
		}
		profile.Finished = append(profile.Finished, f)
	}
	require.NoError(t, st.PutProfile(context.Background(), profile))

	content := &fakeScorer{results: scored("bk1")}
	collaborative := &fakeScorer{}
	svc := newTestRecommender(t, st, content, collaborative)

	_, err := svc.Recommend(context.Background(), Trigger{UserID: "user1", AnchorIDs: []string{"bk1"}})
	require.NoError(t, err)
	assert.Len(t, content.calls, 1)
	assert.Empty(t, collaborative.calls)
}

func TestRecommendUnknownAnchorFailsFast(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1")

	content := &fakeScorer{results: scored("bk1")}
	svc := newTestRecommender(t, st, content, &fakeScorer{})

	_, err := svc.Recommend(context.Background(), Trigger{AnchorIDs: []string{"bk1", "ghost"}})

	var unknownErr *UnknownBookError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "ghost", unknownErr.ID)
	assert.Empty(t, content.calls, "no engine runs when an anchor fails to resolve")
}

func TestRecommendNoAnchorsForContentBased(t *testing.T) {
	st := newTestStore(t)
	svc := newTestRecommender(t, st, &fakeScorer{}, &fakeScorer{})

	_, err := svc.Recommend(context.Background(), Trigger{})
	require.Error(t, err)
}

func TestRecommendPersistsOverwriteNotAccumulate(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1")

	content := &fakeScorer{results: scored("recA", "recB")}
	svc := newTestRecommender(t, st, content, &fakeScorer{})

	_, err := svc.Recommend(context.Background(), Trigger{UserID: "user1", AnchorIDs: []string{"bk1"}})
	require.NoError(t, err)

	content.results = scored("recC")
	_, err = svc.Recommend(context.Background(), Trigger{UserID: "user1", AnchorIDs: []string{"bk1"}})
	require.NoError(t, err)

	saved, err := st.GetRecommendations(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"recC"}, saved.BookIDs)
}

func TestRecommendAnonymousDoesNotPersist(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1")

	svc := newTestRecommender(t, st, &fakeScorer{results: scored("recA")}, &fakeScorer{})

	_, err := svc.Recommend(context.Background(), Trigger{AnchorIDs: []string{"bk1"}})
	require.NoError(t, err)

	count, err := st.Recommendations.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecommendScorerErrorPropagates(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1")

	procErr := &scorer.ProcessError{ExitCode: 1, Stderr: "boom"}
	svc := newTestRecommender(t, st, &fakeScorer{err: procErr}, &fakeScorer{})

	_, err := svc.Recommend(context.Background(), Trigger{UserID: "user1", AnchorIDs: []string{"bk1"}})

	var gotErr *scorer.ProcessError
	require.ErrorAs(t, err, &gotErr)
	assert.Equal(t, 1, gotErr.ExitCode)

	_, err = st.GetRecommendations(context.Background(), "user1")
	assert.ErrorIs(t, err, store.ErrNoSavedRecs, "a failed run must not touch the saved set")
}

func TestRecommendSavedReadBack(t *testing.T) {
	st := newTestStore(t)
	seedBooks(t, st, "bk1", "recA", "recB")

	svc := newTestRecommender(t, st, &fakeScorer{results: scored("recA", "gone", "recB")}, &fakeScorer{})

	_, err := svc.Recommend(context.Background(), Trigger{UserID: "user1", AnchorIDs: []string{"bk1"}})
	require.NoError(t, err)

	saved, books, err := svc.Saved(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, []string{"recA", "gone", "recB"}, saved.BookIDs)

	// Ids that no longer resolve are dropped from the book view.
	require.Len(t, books, 2)
	assert.Equal(t, "recA", books[0].ID)
	assert.Equal(t, "recB", books[1].ID)
}

func TestRecommendCanceledContext(t *testing.T) {
	st := newTestStore(t)
	svc := newTestRecommender(t, st, &fakeScorer{}, &fakeScorer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Recommend(ctx, Trigger{AnchorIDs: []string{"bk1"}})
	assert.True(t, errors.Is(err, context.Canceled))
}
