package api

import (
	"github.com/JovelRamos/myfi-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Book           *service.BookService
	Profile        *service.ProfileService
	Recommendation *service.RecommendationService
	Feed           *service.FeedService
	Search         *service.SearchService
}
