package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     Pinger
	timeout   time.Duration
	responder responder
}

func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 2 * time.Second, responder: newResponder(defaultLogger(logger))}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, okResponse{OK: true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "store ping failed", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusServiceUnavailable, nil)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, okResponse{OK: true})
}
