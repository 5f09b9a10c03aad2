package api

import (
	"log/slog"
	"net/http"

	"github.com/example/ecshop/internal/store"
)

type HealthHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewHealthHandler(st store.Store, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: st, logger: logger}
}

// Health reports liveness and store reachability. A failing store check
// returns 503 so load balancers can drain the instance.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
