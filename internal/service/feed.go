package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/domain"
	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
	"github.com/JovelRamos/myfi-server/internal/store"
)

// Shelf priorities. Gaps are deliberate; shelves are sorted by priority
// before being returned.
const (
	priorityCurrentlyReading = 1
	priorityMyList           = 2
	priorityPersonalized     = 3
	priorityBecauseReading   = 4
	priorityTrending         = 5
	priorityPopular          = 6
	priorityAcclaimed        = 7
	priorityAuthor           = 8
	priorityExplore          = 9
)

const (
	authorShelfMinBooks = 3
	authorShelfMax      = 3
)

// FeedService assembles a user's personalized feed: an ordered list of
// non-overlapping, row-aligned shelves built from the catalog, the user's
// reading lists, and the recommendation router.
type FeedService struct {
	store       *store.Store
	recommender *RecommendationService
	cfg         config.FeedConfig
	logger      *slog.Logger
}

// NewFeedService creates a new feed assembly service.
func NewFeedService(st *store.Store, recommender *RecommendationService, cfg config.FeedConfig, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:       st,
		recommender: recommender,
		cfg:         cfg,
		logger:      logger,
	}
}

// BuildFeed builds the shelf list for one user. Catalog and profile read
// failures fail the whole request; a failed recommendation call only omits
// its shelf. No book id appears on more than one shelf, every returned
// shelf's length is a multiple of the row width, and shelves come back in
// ascending priority order.
func (s *FeedService) BuildFeed(ctx context.Context, userID string) ([]domain.Shelf, error) {
	catalog, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !domainerrors.Is(err, store.ErrProfileNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		// A user without a profile still gets the generic shelves.
		profile = domain.NewReadingProfile(userID)
	}

	byID := make(map[string]domain.Book, len(catalog))
	for _, b := range catalog {
		byID[b.ID] = b
	}

	// Both recommendation shelves run their router calls concurrently under
	// one deadline; each failure is logged and its shelf omitted. Results
	// are merged sequentially afterwards so dedup order stays deterministic.
	personalized, becauseReading := s.fetchRecommendations(ctx, profile, byID)

	used := make(map[string]bool)
	var shelves []domain.Shelf

	add := func(shelf domain.Shelf) {
		if len(shelf.Books) == 0 {
			return
		}
		for _, b := range shelf.Books {
			used[b.ID] = true
		}
		shelves = append(shelves, shelf)
	}

	add(s.listShelf(profile.CurrentlyReading, byID, used, domain.Shelf{
		ID:       string(domain.ShelfCurrentlyReading),
		Title:    "Currently Reading",
		Kind:     domain.ShelfCurrentlyReading,
		Priority: priorityCurrentlyReading,
	}))

	add(s.listShelf(profile.WantToRead, byID, used, domain.Shelf{
		ID:       string(domain.ShelfMyList),
		Title:    "My List",
		Kind:     domain.ShelfMyList,
		Priority: priorityMyList,
	}))

	if personalized != nil {
		add(domain.Shelf{
			ID:           string(domain.ShelfPersonalized),
			Title:        personalized.title,
			Kind:         domain.ShelfPersonalized,
			Books:        resolveScored(personalized.scored, byID, used, nil),
			Priority:     priorityPersonalized,
			Personalized: true,
		})
	}

	if becauseReading != nil {
		source := becauseReading.source
		books := resolveScored(becauseReading.scored, byID, used, func(id string) bool {
			return id == source.ID
		})
		add(domain.Shelf{
			ID:           string(domain.ShelfBecauseReading),
			Title:        fmt.Sprintf("Because You're Reading %s", source.Title),
			Kind:         domain.ShelfBecauseReading,
			Books:        books,
			Priority:     priorityBecauseReading,
			Personalized: true,
			SourceBook:   source,
		})
	}

	s.addGenericShelves(&shelves, catalog, used)

	shelves = s.alignRows(shelves)
	sort.SliceStable(shelves, func(i, j int) bool {
		return shelves[i].Priority < shelves[j].Priority
	})
	return shelves, nil
}

// recShelf carries one recommendation shelf's router output until the
// sequential merge phase.
type recShelf struct {
	title  string
	scored []domain.ScoredBook
	source *domain.Book
}

// fetchRecommendations runs the personalized and because-you're-reading
// router calls concurrently. A nil return for either means that shelf is
// omitted.
func (s *FeedService) fetchRecommendations(ctx context.Context, profile *domain.ReadingProfile, byID map[string]domain.Book) (personalized, becauseReading *recShelf) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RecommendTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		anchors := profile.RatedFinishedIDs()
		title := "Because You've Read"
		if len(anchors) == 0 {
			anchors = slices.Clone(profile.CurrentlyReading)
			title = "Recommended For You"
			// A single current read would make this the same query as the
			// because-you're-reading shelf; let that shelf carry it.
			if len(anchors) == 1 {
				return nil
			}
		}
		if len(anchors) == 0 {
			return nil
		}
		scored, err := s.recommender.Recommend(gctx, Trigger{UserID: profile.UserID, AnchorIDs: anchors})
		if err != nil {
			s.logger.Warn("personalized shelf omitted",
				"user_id", profile.UserID,
				"error", err)
			return nil
		}
		personalized = &recShelf{title: title, scored: scored}
		return nil
	})

	g.Go(func() error {
		reading := profile.MostRecentlyReading()
		if reading == "" {
			return nil
		}
		source, ok := byID[reading]
		if !ok {
			return nil
		}
		scored, err := s.recommender.Recommend(gctx, Trigger{UserID: profile.UserID, AnchorIDs: []string{reading}})
		if err != nil {
			s.logger.Warn("because-reading shelf omitted",
				"user_id", profile.UserID,
				"anchor", reading,
				"error", err)
			return nil
		}
		becauseReading = &recShelf{scored: scored, source: &source}
		return nil
	})

	// Shelf failures are soft, so the goroutines never return an error.
	_ = g.Wait()
	return personalized, becauseReading
}

// listShelf resolves a profile book-id list into a shelf, most recently
// added first, skipping ids already placed and ids absent from the catalog.
func (s *FeedService) listShelf(ids []string, byID map[string]domain.Book, used map[string]bool, shelf domain.Shelf) domain.Shelf {
	for i := len(ids) - 1; i >= 0; i-- {
		book, ok := byID[ids[i]]
		if !ok || used[book.ID] {
			continue
		}
		shelf.Books = append(shelf.Books, book)
	}
	return shelf
}

// resolveScored maps scorer output back to catalog books in scorer order,
// dropping unresolvable ids, already-placed ids, and anything the exclude
// predicate rejects.
func resolveScored(scored []domain.ScoredBook, byID map[string]domain.Book, used map[string]bool, exclude func(id string) bool) []domain.Book {
	var books []domain.Book
	seen := make(map[string]bool)
	for _, r := range scored {
		if used[r.ID] || seen[r.ID] {
			continue
		}
		if exclude != nil && exclude(r.ID) {
			continue
		}
		book, ok := byID[r.ID]
		if !ok {
			continue
		}
		seen[r.ID] = true
		books = append(books, book)
	}
	return books
}

// addGenericShelves builds the non-personalized tail of the feed against
// the running used set, so no book repeats anywhere in the response.
func (s *FeedService) addGenericShelves(shelves *[]domain.Shelf, catalog []domain.Book, used map[string]bool) {
	capacity := s.cfg.ShelfCapacity

	take := func(books []domain.Book, n int) []domain.Book {
		if len(books) > n {
			books = books[:n]
		}
		for _, b := range books {
			used[b.ID] = true
		}
		return books
	}

	add := func(shelf domain.Shelf) {
		if len(shelf.Books) > 0 {
			*shelves = append(*shelves, shelf)
		}
	}

	trending := remaining(catalog, used, nil)
	sortByRating(trending)
	add(domain.Shelf{
		ID:       string(domain.ShelfTrending),
		Title:    "Trending Now",
		Kind:     domain.ShelfTrending,
		Books:    take(trending, capacity),
		Priority: priorityTrending,
	})

	popular := remaining(catalog, used, nil)
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].RatingsCount > popular[j].RatingsCount
	})
	add(domain.Shelf{
		ID:       string(domain.ShelfPopular),
		Title:    "Popular on MyFi",
		Kind:     domain.ShelfPopular,
		Books:    take(popular, capacity),
		Priority: priorityPopular,
	})

	acclaimed := remaining(catalog, used, func(b domain.Book) bool {
		return b.RatingsAverage > s.cfg.AcclaimedMinRating && b.RatingsCount < s.cfg.AcclaimedMaxCount
	})
	sortByRating(acclaimed)
	add(domain.Shelf{
		ID:       string(domain.ShelfAcclaimed),
		Title:    "Critically Acclaimed",
		Kind:     domain.ShelfAcclaimed,
		Books:    take(acclaimed, capacity),
		Priority: priorityAcclaimed,
	})

	for _, shelf := range s.authorShelves(catalog, used) {
		add(shelf)
	}

	explore := remaining(catalog, used, nil)
	sortByRating(explore)
	add(domain.Shelf{
		ID:       string(domain.ShelfExplore),
		Title:    "More to Explore",
		Kind:     domain.ShelfExplore,
		Books:    take(explore, capacity),
		Priority: priorityExplore,
	})
}

// authorShelves groups the remaining catalog by primary author and shelves
// the top authors with enough unused books to survive the row trim.
func (s *FeedService) authorShelves(catalog []domain.Book, used map[string]bool) []domain.Shelf {
	byAuthor := make(map[string][]domain.Book)
	for _, b := range remaining(catalog, used, nil) {
		author := b.PrimaryAuthor()
		if author == "" {
			continue
		}
		byAuthor[author] = append(byAuthor[author], b)
	}

	authors := make([]string, 0, len(byAuthor))
	for author, books := range byAuthor {
		if len(books) >= authorShelfMinBooks {
			authors = append(authors, author)
		}
	}
	// Book count descending, then name, so the pick is deterministic.
	sort.Slice(authors, func(i, j int) bool {
		if len(byAuthor[authors[i]]) != len(byAuthor[authors[j]]) {
			return len(byAuthor[authors[i]]) > len(byAuthor[authors[j]])
		}
		return authors[i] < authors[j]
	})
	if len(authors) > authorShelfMax {
		authors = authors[:authorShelfMax]
	}

	var shelves []domain.Shelf
	for _, author := range authors {
		books := byAuthor[author]
		// A shelf shorter than one display row would be dropped by the
		// alignment trim; skip it without consuming its books.
		if len(books) < s.cfg.RowWidth {
			continue
		}
		if len(books) > s.cfg.ShelfCapacity {
			books = books[:s.cfg.ShelfCapacity]
		}
		for _, b := range books {
			used[b.ID] = true
		}
		shelves = append(shelves, domain.Shelf{
			ID:       "author:" + author,
			Title:    fmt.Sprintf("Books by %s", author),
			Kind:     domain.ShelfAuthor,
			Books:    books,
			Priority: priorityAuthor,
		})
	}
	return shelves
}

// alignRows trims every shelf's tail to a multiple of the row width and
// drops shelves that trim to nothing.
func (s *FeedService) alignRows(shelves []domain.Shelf) []domain.Shelf {
	aligned := shelves[:0]
	for _, shelf := range shelves {
		n := len(shelf.Books) - len(shelf.Books)%s.cfg.RowWidth
		if n == 0 {
			continue
		}
		shelf.Books = shelf.Books[:n]
		aligned = append(aligned, shelf)
	}
	return aligned
}

func remaining(catalog []domain.Book, used map[string]bool, keep func(domain.Book) bool) []domain.Book {
	var books []domain.Book
	for _, b := range catalog {
		if used[b.ID] {
			continue
		}
		if keep != nil && !keep(b) {
			continue
		}
		books = append(books, b)
	}
	return books
}

func sortByRating(books []domain.Book) {
	sort.SliceStable(books, func(i, j int) bool {
		return books[i].RatingsAverage > books[j].RatingsAverage
	})
}
