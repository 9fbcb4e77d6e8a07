package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JovelRamos/myfi-server/internal/cluster"
	"github.com/JovelRamos/myfi-server/internal/config"
	"github.com/JovelRamos/myfi-server/internal/ratelimit"
	"github.com/JovelRamos/myfi-server/internal/store"
	"github.com/JovelRamos/myfi-server/internal/validation"
)

// Server wires the HTTP router, the huma API, and the business services.
type Server struct {
	cfg       *config.Config
	store     *store.Store
	services  *Services
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	sessions  *sessionManager
}

// NewServer creates a configured API server. The caller owns the listener;
// Handler returns the root http.Handler to serve.
func NewServer(cfg *config.Config, st *store.Store, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		store:     st,
		services:  services,
		router:    chi.NewRouter(),
		logger:    logger,
		validator: validation.New(),
		limiter:   ratelimit.New(20, 40),
		sessions:  newSessionManager(cluster.DefaultConfig(), clusterThresholds(cfg.Cluster), logger),
	}

	s.setupMiddleware()
	s.setupAPI()

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases server-owned background resources. It does not close the
// store; the store outlives the HTTP layer.
func (s *Server) Close() {
	s.limiter.Stop()
	s.sessions.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(rateLimitMiddleware(s.limiter, s.logger))
}

func (s *Server) setupAPI() {
	humaConfig := huma.DefaultConfig(s.cfg.Server.Name, "1.0.0")
	humaConfig.Info.Description = "Book recommendation and feed assembly API"
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerProfileRoutes()
	s.registerRecommendationRoutes()
	s.registerFeedRoutes()
	s.registerClusterRoutes()

	// SSE does not fit huma's typed response model, so the stream endpoint
	// hangs off the chi router directly.
	s.router.Get("/api/v1/cluster/sessions/{sessionId}/stream", s.handleClusterStream)
}

func clusterThresholds(cfg config.ClusterConfig) cluster.Thresholds {
	th := cluster.DefaultThresholds()
	if cfg.SimilarityThreshold > 0 {
		th.Similarity = cfg.SimilarityThreshold
	}
	if cfg.RecommendationThreshold > 0 {
		th.Recommendation = cfg.RecommendationThreshold
	}
	return th
}
