package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rollcall/rollcall/internal/redact"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	store   HealthChecker
	events  HealthChecker
	secrets []string
}

// NewHealthHandler creates a new HealthHandler.
// Pass nil for events when event publishing is disabled.
func NewHealthHandler(store, events HealthChecker, secrets ...string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		events:  events,
		secrets: secrets,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the process is serving and never touches the store.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// The store check establishes the shared connection if it is not up yet.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, 2)
	healthy := true

	check := func(name string, c HealthChecker) {
		if c == nil {
			checks[name] = "not configured"
			return
		}
		if err := c.Ping(ctx); err != nil {
			checks[name] = "error: " + redact.Error(err, h.secrets...)
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	check("store", h.store)
	check("nats", h.events)

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{Status: status, Checks: checks})
}
