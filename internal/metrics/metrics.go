// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Store operation labels.
const (
	OpCreate = "create"
	OpList   = "list"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User endpoint metrics
	IncUserCreated()
	IncUserListed()

	// Store metrics
	ObserveStoreDuration(op string, duration time.Duration)
	IncStoreError(kind string) // kind: "connection", "validation", "persistence"

	// Connection manager metrics
	IncConnectionEstablished()
	IncConnectionFailed()

	// Event publishing metrics
	IncEventPublished(status string) // status: "success" or "failed"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
