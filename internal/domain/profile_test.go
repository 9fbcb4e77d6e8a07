package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ratingOf(n int) *int { return &n }

func TestReadingProfile_RatedFinishedIDs_SkipsUnrated(t *testing.T) {
	p := NewReadingProfile("user-1")
	p.FinishBook("bk1", ratingOf(5))
	p.FinishBook("bk2", nil)
	p.FinishBook("bk3", ratingOf(3))

	assert.Equal(t, []string{"bk1", "bk3"}, p.RatedFinishedIDs())
	assert.Equal(t, 2, p.RatedFinishedCount())
}

func TestReadingProfile_MostRecentlyReading_IsLastElement(t *testing.T) {
	p := NewReadingProfile("user-1")
	assert.Empty(t, p.MostRecentlyReading())

	p.StartReading("bk1")
	p.StartReading("bk2")
	assert.Equal(t, "bk2", p.MostRecentlyReading())
}

func TestReadingProfile_StartReading_RemovesFromWantToRead(t *testing.T) {
	p := NewReadingProfile("user-1")
	assert.True(t, p.AddWantToRead("bk1"))
	assert.False(t, p.AddWantToRead("bk1"))

	assert.True(t, p.StartReading("bk1"))
	assert.Empty(t, p.WantToRead)
	assert.Equal(t, []string{"bk1"}, p.CurrentlyReading)

	// Starting again is a no-op.
	assert.False(t, p.StartReading("bk1"))
}

func TestReadingProfile_FinishBook_MovesOutOfCurrentlyReading(t *testing.T) {
	p := NewReadingProfile("user-1")
	p.StartReading("bk1")
	p.FinishBook("bk1", ratingOf(4))

	assert.Empty(t, p.CurrentlyReading)
	assert.Len(t, p.Finished, 1)
	assert.Equal(t, 4, p.Rating("bk1"))
}

func TestReadingProfile_FinishBook_UpdatesRatingInPlace(t *testing.T) {
	p := NewReadingProfile("user-1")
	p.FinishBook("bk1", nil)
	assert.Equal(t, 0, p.Rating("bk1"))

	p.FinishBook("bk1", ratingOf(5))
	assert.Len(t, p.Finished, 1)
	assert.Equal(t, 5, p.Rating("bk1"))
}

func TestBook_PrimaryAuthor(t *testing.T) {
	b := Book{ID: "bk1", Title: "Dune", AuthorNames: []string{"Frank Herbert", "Other"}}
	assert.Equal(t, "Frank Herbert", b.PrimaryAuthor())

	empty := Book{ID: "bk2"}
	assert.Empty(t, empty.PrimaryAuthor())
}
