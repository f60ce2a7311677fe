package handler

import (
	"fmt"
	"net/http"

	"github.com/rollcall/rollcall/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "rollcall_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "rollcall_users_listed_total %d\n", snap.UsersListed)

	writeMetric(w, "rollcall_store_duration_seconds_count{op=\"create\"} %d\n", snap.StoreCreateCount)
	writeMetric(w, "rollcall_store_duration_seconds_sum{op=\"create\"} %.6f\n", float64(snap.StoreCreateTotalNs)/1e9)
	writeMetric(w, "rollcall_store_duration_seconds_count{op=\"list\"} %d\n", snap.StoreListCount)
	writeMetric(w, "rollcall_store_duration_seconds_sum{op=\"list\"} %.6f\n", float64(snap.StoreListTotalNs)/1e9)

	writeMetric(w, "rollcall_store_errors_total{kind=\"connection\"} %d\n", snap.StoreConnectionErrors)
	writeMetric(w, "rollcall_store_errors_total{kind=\"validation\"} %d\n", snap.StoreValidationErrors)
	writeMetric(w, "rollcall_store_errors_total{kind=\"persistence\"} %d\n", snap.StorePersistenceErrors)

	writeMetric(w, "rollcall_connections_total{result=\"established\"} %d\n", snap.ConnectionsEstablished)
	writeMetric(w, "rollcall_connections_total{result=\"failed\"} %d\n", snap.ConnectionsFailed)

	writeMetric(w, "rollcall_events_published_total{status=\"success\"} %d\n", snap.EventsPublished)
	writeMetric(w, "rollcall_events_published_total{status=\"failed\"} %d\n", snap.EventsPublishFailed)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
