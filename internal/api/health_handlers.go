package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// ComponentHealth reports the status of one server dependency.
type ComponentHealth struct {
	Status string `json:"status" enum:"up,down" doc:"Component status"`
	Detail string `json:"detail,omitempty" doc:"Failure detail when down"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status     string                     `json:"status" enum:"healthy,degraded" doc:"Overall server status"`
	Components map[string]ComponentHealth `json:"components" doc:"Per-component status"`
}

// HealthOutput wraps the health check response.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check",
		Description: "Reports the status of the server and its dependencies.",
		Tags:        []string{"System"},
	}, s.handleHealth)
}

func (s *Server) handleHealth(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"store":  s.checkStore(ctx),
		"search": s.checkSearch(),
	}

	status := "healthy"
	for _, c := range components {
		if c.Status != "up" {
			status = "degraded"
			break
		}
	}

	return &HealthOutput{Body: HealthResponse{Status: status, Components: components}}, nil
}

func (s *Server) checkStore(ctx context.Context) ComponentHealth {
	// A point read is enough to prove the database answers.
	if _, err := s.store.HasBook(ctx, "health-probe"); err != nil {
		return ComponentHealth{Status: "down", Detail: err.Error()}
	}
	return ComponentHealth{Status: "up"}
}

func (s *Server) checkSearch() ComponentHealth {
	if _, err := s.services.Search.DocumentCount(); err != nil {
		return ComponentHealth{Status: "down", Detail: err.Error()}
	}
	return ComponentHealth{Status: "up"}
}
