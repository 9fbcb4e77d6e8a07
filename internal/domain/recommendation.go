package domain

import "time"

// ScoredBook is one entry of a scoring engine's output. The score is opaque
// to the pipeline beyond ordering and thresholding; the engine's own output
// order is authoritative and preserved.
type ScoredBook struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	AuthorNames []string `json:"author_names,omitempty"`
	CoverID     string   `json:"cover_id,omitempty"`
	Score       float64  `json:"similarity_score"`
}

// SavedRecommendations is the last computed recommendation set for a user.
// A new computation replaces the prior list wholesale; the stored list must
// never grow across calls.
type SavedRecommendations struct {
	UserID    string    `json:"user_id"`
	BookIDs   []string  `json:"book_ids"`
	UpdatedAt time.Time `json:"updated_at"`
}
