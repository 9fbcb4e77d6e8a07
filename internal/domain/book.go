// Package domain contains the core business entities for the MyFi
// recommendation pipeline.
package domain

// Book represents a catalog entry. Books are owned by the catalog store and
// are immutable from the pipeline's point of view; the feed engine only
// reads, orders, and groups them.
type Book struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_names,omitempty"`
	CoverID          string   `json:"cover_id,omitempty"`
	RatingsAverage   float64  `json:"ratings_average"`
	RatingsCount     int      `json:"ratings_count"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	Description      string   `json:"description,omitempty"`
}

// PrimaryAuthor returns the first listed author, or empty if none.
// Author shelves group by primary author only.
func (b *Book) PrimaryAuthor() string {
	if len(b.AuthorNames) == 0 {
		return ""
	}
	return b.AuthorNames[0]
}
