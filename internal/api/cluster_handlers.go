package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/JovelRamos/myfi-server/internal/cluster"
	domainerrors "github.com/JovelRamos/myfi-server/internal/errors"
)

// ClusterBookRef places one book in the layout.
type ClusterBookRef struct {
	ID     string `json:"id" minLength:"1" doc:"Book id" validate:"required"`
	Status string `json:"status" enum:"reading,to-read,finished,recommended" doc:"Reading status" validate:"required,oneof=reading to-read finished recommended"`
	// SourceID names the book a recommendation came from, when known.
	SourceID string `json:"source_id,omitempty" doc:"Originating book for a recommendation"`
}

// SimilarityScore is one symmetric pairwise similarity.
type SimilarityScore struct {
	A     string  `json:"a" minLength:"1" validate:"required"`
	B     string  `json:"b" minLength:"1" validate:"required"`
	Score float64 `json:"score" minimum:"0" maximum:"1" doc:"Similarity in [0, 1]"`
}

// CreateClusterSessionRequest starts a layout session.
type CreateClusterSessionRequest struct {
	Mode string `json:"mode" enum:"status,similarity" doc:"Force layout mode" validate:"required,oneof=status similarity"`
	// UserID supplies ratings for recommendation link derivation.
	UserID       string            `json:"user_id,omitempty" maxLength:"128"`
	Books        []ClusterBookRef  `json:"books" minItems:"1" doc:"Books to lay out" validate:"required,min=1,dive"`
	Similarities []SimilarityScore `json:"similarities,omitempty" doc:"Pairwise similarity scores" validate:"dive"`
}

// CreateClusterSessionInput wraps the session request body.
type CreateClusterSessionInput struct {
	Body CreateClusterSessionRequest
}

// ClusterConnection is a derived link in the response.
type ClusterConnection struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Strength float64 `json:"strength"`
	Kind     string  `json:"kind"`
}

// ClusterSessionResponse is the session state snapshot.
type ClusterSessionResponse struct {
	SessionID   string                   `json:"session_id"`
	Mode        string                   `json:"mode"`
	Positions   map[string]cluster.Point `json:"positions"`
	Connections []ClusterConnection      `json:"connections"`
	Settled     bool                     `json:"settled"`
}

// ClusterSessionOutput wraps a session snapshot.
type ClusterSessionOutput struct {
	Body ClusterSessionResponse
}

// GetClusterSessionInput identifies a session and optionally advances it.
type GetClusterSessionInput struct {
	SessionID string `path:"sessionId" doc:"Session id"`
	Steps     int    `query:"steps" default:"0" minimum:"0" maximum:"1000" doc:"Simulation ticks to advance before reading"`
}

// DragNodeInput pins a node at a new position.
type DragNodeInput struct {
	SessionID string `path:"sessionId" doc:"Session id"`
	Body      struct {
		NodeID string  `json:"node_id" minLength:"1" doc:"Node to pin"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
}

// ReleaseNodeInput unpins a dragged node.
type ReleaseNodeInput struct {
	SessionID string `path:"sessionId" doc:"Session id"`
	Body      struct {
		NodeID string `json:"node_id" minLength:"1" doc:"Node to release"`
	}
}

// DeleteClusterSessionInput identifies a session to end.
type DeleteClusterSessionInput struct {
	SessionID string `path:"sessionId" doc:"Session id"`
}

// LayoutOutput is the one-shot solved layout.
type LayoutOutput struct {
	Body struct {
		Positions   map[string]cluster.Point `json:"positions"`
		Connections []ClusterConnection      `json:"connections"`
		Settled     bool                     `json:"settled" doc:"False when the step limit was reached before settling"`
	}
}

// maxSolveSteps bounds the one-shot layout solve.
const maxSolveSteps = 5000

func (s *Server) registerClusterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "solve-cluster-layout",
		Method:      http.MethodPost,
		Path:        "/api/v1/cluster/layout",
		Summary:     "Solve a layout to convergence",
		Description: "Runs the force simulation until it settles and returns final positions. Use sessions for interactive layouts.",
		Tags:        []string{"Cluster"},
	}, s.handleSolveLayout)

	huma.Register(s.api, huma.Operation{
		OperationID: "create-cluster-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/cluster/sessions",
		Summary:     "Start a cluster layout session",
		Description: "Derives connections for the book set and seeds a force-directed layout.",
		Tags:        []string{"Cluster"},
	}, s.handleCreateClusterSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-cluster-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/cluster/sessions/{sessionId}",
		Summary:     "Read a layout snapshot",
		Tags:        []string{"Cluster"},
	}, s.handleGetClusterSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "drag-cluster-node",
		Method:      http.MethodPost,
		Path:        "/api/v1/cluster/sessions/{sessionId}/drag",
		Summary:     "Drag a node",
		Description: "Pins the node at the given position until released.",
		Tags:        []string{"Cluster"},
	}, s.handleDragNode)

	huma.Register(s.api, huma.Operation{
		OperationID: "release-cluster-node",
		Method:      http.MethodPost,
		Path:        "/api/v1/cluster/sessions/{sessionId}/release",
		Summary:     "Release a dragged node",
		Tags:        []string{"Cluster"},
	}, s.handleReleaseNode)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-cluster-session",
		Method:      http.MethodDelete,
		Path:        "/api/v1/cluster/sessions/{sessionId}",
		Summary:     "End a layout session",
		Tags:        []string{"Cluster"},
	}, s.handleDeleteClusterSession)
}

func (s *Server) handleSolveLayout(ctx context.Context, input *CreateClusterSessionInput) (*LayoutOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	nodes := make([]cluster.Node, len(input.Body.Books))
	var catalogIDs, recommendedIDs []string
	for i, b := range input.Body.Books {
		nodes[i] = cluster.Node{ID: b.ID, Status: cluster.Status(b.Status), SourceID: b.SourceID}
		if nodes[i].Status == cluster.StatusRecommended {
			recommendedIDs = append(recommendedIDs, b.ID)
		} else {
			catalogIDs = append(catalogIDs, b.ID)
		}
	}

	rating := s.ratingLookup(ctx, input.Body.UserID)
	simFn := similarityLookup(input.Body.Similarities)
	conns := cluster.DeriveConnections(catalogIDs, recommendedIDs, rating, simFn, s.sessions.th)

	sim := cluster.NewSimulation(s.sessions.simCfg, cluster.Mode(input.Body.Mode), nodes, conns)
	for i := 0; i < maxSolveSteps && !sim.Settled(); i++ {
		sim.Step(1)
	}

	resp := &LayoutOutput{}
	resp.Body.Positions = sim.Positions()
	resp.Body.Settled = sim.Settled()
	resp.Body.Connections = make([]ClusterConnection, len(conns))
	for i, c := range conns {
		resp.Body.Connections[i] = ClusterConnection{A: c.A, B: c.B, Strength: c.Strength, Kind: string(c.Kind)}
	}
	return resp, nil
}

func (s *Server) handleCreateClusterSession(ctx context.Context, input *CreateClusterSessionInput) (*ClusterSessionOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	nodes := make([]cluster.Node, len(input.Body.Books))
	for i, b := range input.Body.Books {
		nodes[i] = cluster.Node{
			ID:       b.ID,
			Status:   cluster.Status(b.Status),
			SourceID: b.SourceID,
		}
	}

	rating := s.ratingLookup(ctx, input.Body.UserID)
	sim := similarityLookup(input.Body.Similarities)

	cs := s.sessions.Create(cluster.Mode(input.Body.Mode), nodes, rating, sim)
	return clusterResponse(cs), nil
}

func (s *Server) handleGetClusterSession(_ context.Context, input *GetClusterSessionInput) (*ClusterSessionOutput, error) {
	cs, ok := s.sessions.Get(input.SessionID)
	if !ok {
		return nil, domainerrors.NotFoundf("cluster session %s not found", input.SessionID)
	}
	if input.Steps > 0 {
		cs.advance(input.Steps)
	}
	return clusterResponse(cs), nil
}

func (s *Server) handleDragNode(_ context.Context, input *DragNodeInput) (*ClusterSessionOutput, error) {
	cs, ok := s.sessions.Get(input.SessionID)
	if !ok {
		return nil, domainerrors.NotFoundf("cluster session %s not found", input.SessionID)
	}
	if !cs.drag(input.Body.NodeID, cluster.Point{X: input.Body.X, Y: input.Body.Y}) {
		return nil, domainerrors.NotFoundf("node %s not in session", input.Body.NodeID)
	}
	return clusterResponse(cs), nil
}

func (s *Server) handleReleaseNode(_ context.Context, input *ReleaseNodeInput) (*ClusterSessionOutput, error) {
	cs, ok := s.sessions.Get(input.SessionID)
	if !ok {
		return nil, domainerrors.NotFoundf("cluster session %s not found", input.SessionID)
	}
	if !cs.release(input.Body.NodeID) {
		return nil, domainerrors.NotFoundf("node %s not in session", input.Body.NodeID)
	}
	return clusterResponse(cs), nil
}

func (s *Server) handleDeleteClusterSession(_ context.Context, input *DeleteClusterSessionInput) (*struct{}, error) {
	if !s.sessions.Delete(input.SessionID) {
		return nil, domainerrors.NotFoundf("cluster session %s not found", input.SessionID)
	}
	return &struct{}{}, nil
}

// ratingLookup resolves ratings from the user's profile; anonymous sessions
// rate everything zero, which disables recommendation links in favor of
// fallbacks.
func (s *Server) ratingLookup(ctx context.Context, userID string) cluster.RatingFunc {
	if userID == "" {
		return func(string) int { return 0 }
	}
	profile, err := s.services.Profile.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("cluster session falling back to unrated layout",
			"user_id", userID,
			"error", err)
		return func(string) int { return 0 }
	}
	return profile.Rating
}

func similarityLookup(scores []SimilarityScore) cluster.SimilarityFunc {
	pairs := make(map[[2]string]float64, len(scores))
	for _, sc := range scores {
		pairs[[2]string{sc.A, sc.B}] = sc.Score
		pairs[[2]string{sc.B, sc.A}] = sc.Score
	}
	return func(a, b string) float64 { return pairs[[2]string{a, b}] }
}

func clusterResponse(cs *clusterSession) *ClusterSessionOutput {
	positions, settled := cs.snapshot()

	conns := make([]ClusterConnection, len(cs.conns))
	for i, c := range cs.conns {
		conns[i] = ClusterConnection{A: c.A, B: c.B, Strength: c.Strength, Kind: string(c.Kind)}
	}

	return &ClusterSessionOutput{Body: ClusterSessionResponse{
		SessionID:   cs.id,
		Mode:        string(cs.mode),
		Positions:   positions,
		Connections: conns,
		Settled:     settled,
	}}
}
