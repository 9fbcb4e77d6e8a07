package domain

import (
	"slices"
	"time"
)

// FinishedBook is an entry in a user's finished list. A nil Rating means the
// book is finished but not yet rated.
type FinishedBook struct {
	BookID     string    `json:"book_id"`
	Rating     *int      `json:"rating,omitempty"` // 1..5 when set
	FinishedAt time.Time `json:"finished_at"`
}

// ReadingProfile holds a user's three reading lists. All lists are kept in
// insertion order, oldest first, so the most recently added entry is the last
// element. The pipeline reads the profile and never writes anything back to
// it except through the explicit list operations below.
type ReadingProfile struct {
	UserID           string         `json:"user_id"`
	WantToRead       []string       `json:"want_to_read"`
	CurrentlyReading []string       `json:"currently_reading"`
	Finished         []FinishedBook `json:"finished"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewReadingProfile creates an empty profile for a user.
func NewReadingProfile(userID string) *ReadingProfile {
	now := time.Now()
	return &ReadingProfile{
		UserID:           userID,
		WantToRead:       []string{},
		CurrentlyReading: []string{},
		Finished:         []FinishedBook{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// RatedFinishedIDs returns the ids of finished books that carry a rating, in
// list order. This is the anchor set for personalized recommendations and
// the signal the router counts when selecting a strategy.
func (p *ReadingProfile) RatedFinishedIDs() []string {
	ids := make([]string, 0, len(p.Finished))
	for _, f := range p.Finished {
		if f.Rating != nil {
			ids = append(ids, f.BookID)
		}
	}
	return ids
}

// RatedFinishedCount returns how many finished books have a rating.
func (p *ReadingProfile) RatedFinishedCount() int {
	n := 0
	for _, f := range p.Finished {
		if f.Rating != nil {
			n++
		}
	}
	return n
}

// MostRecentlyReading returns the most recently added currently-reading book
// id, or empty if the list is empty.
func (p *ReadingProfile) MostRecentlyReading() string {
	if len(p.CurrentlyReading) == 0 {
		return ""
	}
	return p.CurrentlyReading[len(p.CurrentlyReading)-1]
}

// Rating returns the user's rating for a book, or 0 if the book is not a
// rated finished entry.
func (p *ReadingProfile) Rating(bookID string) int {
	for _, f := range p.Finished {
		if f.BookID == bookID && f.Rating != nil {
			return *f.Rating
		}
	}
	return 0
}

// AddWantToRead appends a book to the want-to-read list.
// Returns false if it is already present.
func (p *ReadingProfile) AddWantToRead(bookID string) bool {
	if slices.Contains(p.WantToRead, bookID) {
		return false
	}
	p.WantToRead = append(p.WantToRead, bookID)
	p.UpdatedAt = time.Now()
	return true
}

// RemoveWantToRead removes a book from the want-to-read list.
// Returns false if it was not present.
func (p *ReadingProfile) RemoveWantToRead(bookID string) bool {
	for i, id := range p.WantToRead {
		if id == bookID {
			p.WantToRead = append(p.WantToRead[:i], p.WantToRead[i+1:]...)
			p.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// StartReading appends a book to the currently-reading list and removes it
// from want-to-read if present. Returns false if already being read.
func (p *ReadingProfile) StartReading(bookID string) bool {
	if slices.Contains(p.CurrentlyReading, bookID) {
		return false
	}
	p.RemoveWantToRead(bookID)
	p.CurrentlyReading = append(p.CurrentlyReading, bookID)
	p.UpdatedAt = time.Now()
	return true
}

// StopReading removes a book from the currently-reading list without
// recording it as finished. Returns false if it was not being read.
func (p *ReadingProfile) StopReading(bookID string) bool {
	for i, id := range p.CurrentlyReading {
		if id == bookID {
			p.CurrentlyReading = append(p.CurrentlyReading[:i], p.CurrentlyReading[i+1:]...)
			p.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// FinishBook moves a book out of currently-reading (if present) and records
// it as finished with an optional rating. A second call for the same book
// updates the rating in place rather than duplicating the entry.
func (p *ReadingProfile) FinishBook(bookID string, rating *int) {
	p.StopReading(bookID)
	for i := range p.Finished {
		if p.Finished[i].BookID == bookID {
			p.Finished[i].Rating = rating
			p.UpdatedAt = time.Now()
			return
		}
	}
	p.Finished = append(p.Finished, FinishedBook{
		BookID:     bookID,
		Rating:     rating,
		FinishedAt: time.Now(),
	})
	p.UpdatedAt = time.Now()
}
