package domain

// ShelfKind identifies how a feed shelf was produced.
type ShelfKind string

const (
	// ShelfCurrentlyReading lists the books the user is reading now.
	ShelfCurrentlyReading ShelfKind = "currently_reading"
	// ShelfMyList lists the user's want-to-read books.
	ShelfMyList ShelfKind = "my_list"
	// ShelfPersonalized holds recommendations anchored on the user's rated
	// history (or their current reads as a fallback).
	ShelfPersonalized ShelfKind = "personalized"
	// ShelfBecauseReading holds recommendations anchored on the single most
	// recently started book.
	ShelfBecauseReading ShelfKind = "because_reading"
	// ShelfTrending holds the highest-rated remaining catalog books.
	ShelfTrending ShelfKind = "trending"
	// ShelfPopular holds the most-rated remaining catalog books.
	ShelfPopular ShelfKind = "popular"
	// ShelfAcclaimed holds highly rated books with few ratings ("hidden gems").
	ShelfAcclaimed ShelfKind = "acclaimed"
	// ShelfAuthor groups remaining books by a single primary author.
	ShelfAuthor ShelfKind = "author"
	// ShelfExplore is the catch-all tail shelf.
	ShelfExplore ShelfKind = "explore"
)

// Shelf is a titled, ordered, deduplicated row of books in a feed response.
// Shelves are built fresh on every feed request, never mutated after
// construction, and never persisted.
type Shelf struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Kind         ShelfKind `json:"kind"`
	Books        []Book    `json:"books"`
	Priority     int       `json:"priority"`
	Personalized bool      `json:"personalized"`
	SourceBook   *Book     `json:"source_book,omitempty"`
}

// BookIDs returns the ids of the shelf's books in shelf order.
func (s *Shelf) BookIDs() []string {
	ids := make([]string, len(s.Books))
	for i := range s.Books {
		ids[i] = s.Books[i].ID
	}
	return ids
}
