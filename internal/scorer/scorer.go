// Package scorer runs external scoring engines and parses their output.
//
// Engines are modeled as a capability interface so the router never depends
// on the transport: the production implementation spawns a subprocess per
// call, and tests substitute in-process fakes behind the same contract
// (all-or-nothing output, exit-status style success/failure).
package scorer

import (
	"context"

	"github.com/JovelRamos/myfi-server/internal/domain"
)

// EngineKind selects a scoring strategy.
type EngineKind string

const (
	// EngineContentBased ranks candidates against one or more anchor books.
	EngineContentBased EngineKind = "content-based"
	// EngineCollaborative ranks candidates against a user's rating history.
	EngineCollaborative EngineKind = "collaborative"
)

// Scorer is the capability interface for a scoring engine. Args are
// positional: either one-or-more book ids or a single user id, never mixed.
// The result is all-or-nothing; a partial read is never returned.
type Scorer interface {
	Score(ctx context.Context, args []string) ([]domain.ScoredBook, error)
}
