package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JovelRamos/myfi-server/internal/cluster"
)

const sessionIdleTTL = 10 * time.Minute

// clusterSession owns one live layout. The mutex serializes simulation
// steps against drag and snapshot calls from other requests.
type clusterSession struct {
	id    string
	mode  cluster.Mode
	mu    sync.Mutex
	sim   *cluster.Simulation
	conns []cluster.Connection

	lastUsed time.Time
}

// snapshot returns the current positions without advancing the simulation.
func (cs *clusterSession) snapshot() (map[string]cluster.Point, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.sim.Positions(), cs.sim.Settled()
}

// advance steps the simulation up to n ticks, stopping early once settled.
func (cs *clusterSession) advance(n int) (map[string]cluster.Point, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i := 0; i < n && !cs.sim.Settled(); i++ {
		cs.sim.Step(1)
	}
	return cs.sim.Positions(), cs.sim.Settled()
}

func (cs *clusterSession) drag(nodeID string, to cluster.Point) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.sim.Drag(nodeID, to)
}

func (cs *clusterSession) release(nodeID string) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.sim.Release(nodeID)
}

// sessionManager tracks live layout sessions and reaps idle ones.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*clusterSession
	simCfg   cluster.Config
	th       cluster.Thresholds
	logger   *slog.Logger
	done     chan struct{}
	stopOnce sync.Once
}

func newSessionManager(simCfg cluster.Config, th cluster.Thresholds, logger *slog.Logger) *sessionManager {
	m := &sessionManager{
		sessions: make(map[string]*clusterSession),
		simCfg:   simCfg,
		th:       th,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go m.reapLoop()
	return m
}

// Create derives connections for the node set and starts a new simulation.
func (m *sessionManager) Create(mode cluster.Mode, nodes []cluster.Node, rating cluster.RatingFunc, sim cluster.SimilarityFunc) *clusterSession {
	var catalogIDs, recommendedIDs []string
	for _, n := range nodes {
		if n.Status == cluster.StatusRecommended {
			recommendedIDs = append(recommendedIDs, n.ID)
		} else {
			catalogIDs = append(catalogIDs, n.ID)
		}
	}

	conns := cluster.DeriveConnections(catalogIDs, recommendedIDs, rating, sim, m.th)

	cs := &clusterSession{
		id:       uuid.NewString(),
		mode:     mode,
		sim:      cluster.NewSimulation(m.simCfg, mode, nodes, conns),
		conns:    conns,
		lastUsed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[cs.id] = cs
	m.mu.Unlock()

	m.logger.Debug("cluster session created",
		"session_id", cs.id,
		"mode", string(mode),
		"nodes", len(nodes),
		"connections", len(conns))

	return cs
}

// Get returns a live session and refreshes its idle timer.
func (m *sessionManager) Get(id string) (*clusterSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.sessions[id]
	if ok {
		cs.lastUsed = time.Now()
	}
	return cs, ok
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (m *sessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Stop halts the reaper. Live sessions are dropped with it.
func (m *sessionManager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *sessionManager) reapLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reapIdle()
		case <-m.done:
			return
		}
	}
}

func (m *sessionManager) reapIdle() {
	cutoff := time.Now().Add(-sessionIdleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cs := range m.sessions {
		if cs.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			m.logger.Debug("cluster session expired", "session_id", id)
		}
	}
}
