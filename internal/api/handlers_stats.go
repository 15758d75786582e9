package api

import (
	"net/http"
)

// handleStats reports history aggregates, the live queue depth, and recent
// conversion latency percentiles.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	store := s.history()
	if store == nil {
		jsonError(w, "history unavailable", http.StatusServiceUnavailable)
		return
	}

	st, err := store.Stats()
	if err != nil {
		jsonError(w, "failed to aggregate stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"history":     st,
		"queue_depth": s.orchestrator.QueueDepth(),
		"recent":      s.orchestrator.Latency().Snapshot(),
	})
}
