package providers

import (
	"github.com/samber/do/v2"

	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/logger"
	"github.com/JovelRamos/myfi-server/internal/service"
)

// ProvideBookService provides catalog reads.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewBookService(st.Store, log.Logger), nil
}

// ProvideProfileService provides reading list management.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewProfileService(st.Store, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation router.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	content := do.MustInvoke[*ContentScorer](i)
	collaborative := do.MustInvoke[*CollaborativeScorer](i)

	return service.NewRecommendationService(
		st.Store,
		content.Scorer,
		collaborative.Scorer,
		cfg.Feed.RatedHistoryThreshold,
		log.Logger,
	), nil
}

// ProvideFeedService provides feed assembly.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	recommender := do.MustInvoke[*service.RecommendationService](i)

	return service.NewFeedService(st.Store, recommender, cfg.Feed, log.Logger), nil
}

// ProvideSearchService provides catalog search.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(st.Store, index.Index, log.Logger), nil
}
