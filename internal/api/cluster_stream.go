package api

import (
	"encoding/json/v2"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JovelRamos/myfi-server/internal/cluster"
)

// streamFrame is one SSE payload: positions after a tick.
type streamFrame struct {
	Positions map[string]cluster.Point `json:"positions"`
	Energy    float64                  `json:"energy"`
	Settled   bool                     `json:"settled"`
}

// handleClusterStream streams layout ticks as server-sent events until the
// simulation settles or the client disconnects. Drags from other requests
// re-energize the simulation and keep the stream alive.
func (s *Server) handleClusterStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	cs, ok := s.sessions.Get(sessionID)
	if !ok {
		http.Error(w, "cluster session not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	interval := s.cfg.Cluster.TickInterval
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			frame, settled := s.tickFrame(cs)
			if err := writeEvent(w, "positions", frame); err != nil {
				return
			}
			flusher.Flush()
			if settled {
				if err := writeEvent(w, "settled", frame); err == nil {
					flusher.Flush()
				}
				return
			}
		}
	}
}

func (s *Server) tickFrame(cs *clusterSession) (streamFrame, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	energy := cs.sim.Step(1)
	frame := streamFrame{
		Positions: cs.sim.Positions(),
		Energy:    energy,
		Settled:   cs.sim.Settled(),
	}
	return frame, frame.Settled
}

func writeEvent(w http.ResponseWriter, event string, frame streamFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
