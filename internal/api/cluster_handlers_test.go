package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JovelRamos/myfi-server/internal/cluster"
)

func createStatusSession(ts *testServer, t *testing.T) ClusterSessionResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/cluster/sessions", map[string]any{
		"mode": "status",
		"books": []map[string]any{
			{"id": "bk1", "status": "reading"},
			{"id": "bk2", "status": "to-read"},
			{"id": "bk3", "status": "finished"},
			{"id": "bk4", "status": "recommended", "source_id": "bk3"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ClusterSessionResponse](t, resp.Body.Bytes())
	require.True(t, env.Success)
	return env.Data
}

func TestClusterSessionLifecycle(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})

	session := createStatusSession(ts, t)
	require.NotEmpty(t, session.SessionID)
	assert.Equal(t, "status", session.Mode)
	assert.Len(t, session.Positions, 4)
	assert.False(t, session.Settled)

	resp := ts.api.Get("/api/v1/cluster/sessions/" + session.SessionID + "?steps=50")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/cluster/sessions/" + session.SessionID)
	require.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/cluster/sessions/" + session.SessionID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestClusterDragPinsNode(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})
	session := createStatusSession(ts, t)

	resp := ts.api.Post("/api/v1/cluster/sessions/"+session.SessionID+"/drag", map[string]any{
		"node_id": "bk1",
		"x":       42.0,
		"y":       77.0,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ClusterSessionResponse](t, resp.Body.Bytes())
	assert.Equal(t, cluster.Point{X: 42, Y: 77}, env.Data.Positions["bk1"])

	// A pinned node stays put while the simulation advances.
	resp = ts.api.Get("/api/v1/cluster/sessions/" + session.SessionID + "?steps=100")
	require.Equal(t, http.StatusOK, resp.Code)
	env = decodeEnvelope[ClusterSessionResponse](t, resp.Body.Bytes())
	assert.Equal(t, cluster.Point{X: 42, Y: 77}, env.Data.Positions["bk1"])

	resp = ts.api.Post("/api/v1/cluster/sessions/"+session.SessionID+"/release", map[string]any{
		"node_id": "bk1",
	})
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestClusterDragUnknownNode(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})
	session := createStatusSession(ts, t)

	resp := ts.api.Post("/api/v1/cluster/sessions/"+session.SessionID+"/drag", map[string]any{
		"node_id": "ghost",
		"x":       0.0,
		"y":       0.0,
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestClusterSessionRejectsBadMode(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})

	resp := ts.api.Post("/api/v1/cluster/sessions", map[string]any{
		"mode":  "spiral",
		"books": []map[string]any{{"id": "bk1", "status": "reading"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestClusterSimilarityConnections(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})

	resp := ts.api.Post("/api/v1/cluster/sessions", map[string]any{
		"mode": "similarity",
		"books": []map[string]any{
			{"id": "bk1", "status": "finished"},
			{"id": "bk2", "status": "finished"},
			{"id": "bk3", "status": "finished"},
		},
		"similarities": []map[string]any{
			{"a": "bk1", "b": "bk2", "score": 0.95},
			{"a": "bk1", "b": "bk3", "score": 0.2},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ClusterSessionResponse](t, resp.Body.Bytes())
	require.Len(t, env.Data.Connections, 1)
	assert.Equal(t, "bk1", env.Data.Connections[0].A)
	assert.Equal(t, "bk2", env.Data.Connections[0].B)
	assert.Equal(t, "similarity", env.Data.Connections[0].Kind)
}

func TestSolveLayoutRunsToConvergence(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})

	resp := ts.api.Post("/api/v1/cluster/layout", map[string]any{
		"mode": "status",
		"books": []map[string]any{
			{"id": "bk1", "status": "reading"},
			{"id": "bk2", "status": "finished"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[struct {
		Positions map[string]cluster.Point `json:"positions"`
		Settled   bool                     `json:"settled"`
	}](t, resp.Body.Bytes())
	assert.True(t, env.Data.Settled)
	assert.Len(t, env.Data.Positions, 2)
}

func TestClusterStreamEndsWhenSettled(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})

	nodes := []cluster.Node{
		{ID: "bk1", Status: cluster.StatusReading},
		{ID: "bk2", Status: cluster.StatusFinished},
	}
	cs := ts.sessions.Create(cluster.ModeStatus, nodes,
		func(string) int { return 0 },
		func(string, string) float64 { return 0 })

	// Pre-settle so the stream closes after a frame or two.
	cs.advance(5000)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cluster/sessions/"+cs.id+"/stream", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "event: positions"), body)
	assert.True(t, strings.Contains(body, "event: settled"), body)
}

func TestClusterStreamUnknownSession(t *testing.T) {
	ts := setupTestServer(t, &stubScorer{}, &stubScorer{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cluster/sessions/ghost/stream", nil)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
