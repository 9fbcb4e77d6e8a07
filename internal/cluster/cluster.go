// Package cluster lays out a book graph with a force-directed simulation
// for the similarity visualization. The simulation is cooperatively
// stepped: callers advance it one tick at a time and read positions
// between ticks, so it never blocks a request path.
package cluster

import (
	"sort"
)

// Status places a node in one of the four reading states the status layout
// anchors on.
type Status string

const (
	StatusReading     Status = "reading"
	StatusToRead      Status = "to-read"
	StatusFinished    Status = "finished"
	StatusRecommended Status = "recommended"
)

// Mode selects the active force set.
type Mode string

const (
	// ModeStatus pulls each node strongly toward its status anchor.
	ModeStatus Mode = "status"
	// ModeSimilarity links connected nodes with springs and keeps only a
	// weak status pull.
	ModeSimilarity Mode = "similarity"
)

// ConnectionKind says how a connection was derived.
type ConnectionKind string

const (
	// KindSimilarity links two catalog books whose pairwise similarity
	// clears the high threshold.
	KindSimilarity ConnectionKind = "similarity"
	// KindRecommendation links a highly-rated source book to a
	// recommended book.
	KindRecommendation ConnectionKind = "recommendation"
	// KindFallback is the weak anchor link given to a recommendation with
	// no qualifying source.
	KindFallback ConnectionKind = "fallback"
)

// Node is one book in the layout.
type Node struct {
	ID     string
	Status Status
	// SourceID seeds a recommended node near its originating book in
	// similarity mode. Empty for catalog nodes.
	SourceID string
}

// Connection is a derived link between two nodes. Strength is in (0, 1].
type Connection struct {
	A        string
	B        string
	Strength float64
	Kind     ConnectionKind
}

// Point is a 2-D position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Thresholds bound connection derivation.
type Thresholds struct {
	// Similarity is the exclusive lower bound for a catalog-catalog link.
	Similarity float64
	// Recommendation is the exclusive lower bound for a source-to-
	// recommendation link.
	Recommendation float64
	// MinSourceRating qualifies a book as a recommendation source.
	MinSourceRating int
}

// DefaultThresholds mirrors the visualization defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Similarity:      0.7,
		Recommendation:  0.3,
		MinSourceRating: 4,
	}
}

const fallbackStrength = 0.15

// SimilarityFunc reports the pairwise similarity of two books in [0, 1].
type SimilarityFunc func(a, b string) float64

// RatingFunc reports the user's rating for a book, 0 when unrated.
type RatingFunc func(id string) int

// DeriveConnections builds the link set for a layout. Catalog books link to
// each other above the high similarity threshold; recommended books link to
// highly-rated sources above the lower threshold, or to an arbitrary
// highly-rated book with a weak fallback link so no recommendation floats
// unanchored.
func DeriveConnections(catalogIDs, recommendedIDs []string, rating RatingFunc, sim SimilarityFunc, th Thresholds) []Connection {
	var conns []Connection

	for i := 0; i < len(catalogIDs); i++ {
		for j := i + 1; j < len(catalogIDs); j++ {
			if s := sim(catalogIDs[i], catalogIDs[j]); s > th.Similarity {
				conns = append(conns, Connection{
					A:        catalogIDs[i],
					B:        catalogIDs[j],
					Strength: s,
					Kind:     KindSimilarity,
				})
			}
		}
	}

	var highlyRated []string
	for _, id := range catalogIDs {
		if rating(id) >= th.MinSourceRating {
			highlyRated = append(highlyRated, id)
		}
	}
	sort.Strings(highlyRated)

	for _, rec := range recommendedIDs {
		linked := false
		for _, src := range highlyRated {
			if s := sim(src, rec); s > th.Recommendation {
				conns = append(conns, Connection{
					A:        src,
					B:        rec,
					Strength: s,
					Kind:     KindRecommendation,
				})
				linked = true
			}
		}
		if !linked && len(highlyRated) > 0 {
			conns = append(conns, Connection{
				A:        highlyRated[0],
				B:        rec,
				Strength: fallbackStrength,
				Kind:     KindFallback,
			})
		}
	}

	return conns
}
