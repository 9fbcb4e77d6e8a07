// Package di provides dependency injection configuration for the MyFi server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/di/providers"
	"github.com/JovelRamos/myfi-server/internal/logger"
	"github.com/JovelRamos/myfi-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Scoring engines
	do.Provide(injector, providers.ProvideContentScorer)
	do.Provide(injector, providers.ProvideCollaborativeScorer)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideRecommendationService)
	do.Provide(injector, providers.ProvideFeedService)
	do.Provide(injector, providers.ProvideSearchService)

	// Catalog pipeline
	do.Provide(injector, providers.ProvideCatalogImporter)
	do.Provide(injector, providers.ProvideCatalogReloader)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of the whole graph.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)
	_ = do.MustInvoke[*service.FeedService](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	_ = do.MustInvoke[*providers.CatalogHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
