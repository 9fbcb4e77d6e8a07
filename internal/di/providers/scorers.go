package providers

import (
	"github.com/samber/do/v2"

	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/logger"
	"github.com/JovelRamos/myfi-server/internal/scorer"
)

// ContentScorer tags the content-based engine so both scorers can live in
// the container.
type ContentScorer struct {
	scorer.Scorer
}

// CollaborativeScorer tags the collaborative filtering engine.
type CollaborativeScorer struct {
	scorer.Scorer
}

// ProvideContentScorer provides the content-based scoring engine.
func ProvideContentScorer(i do.Injector) (*ContentScorer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s := scorer.NewProcessScorer(scorer.EngineContentBased, cfg.Scorer.ContentBased, log.Logger)
	return &ContentScorer{Scorer: s}, nil
}

// ProvideCollaborativeScorer provides the collaborative filtering engine.
func ProvideCollaborativeScorer(i do.Injector) (*CollaborativeScorer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s := scorer.NewProcessScorer(scorer.EngineCollaborative, cfg.Scorer.Collaborative, log.Logger)
	return &CollaborativeScorer{Scorer: s}, nil
}
