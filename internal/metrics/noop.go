package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserListed is a no-op.
func (n *NoopRecorder) IncUserListed() {}

// ObserveStoreDuration is a no-op.
func (n *NoopRecorder) ObserveStoreDuration(op string, duration time.Duration) {}

// IncStoreError is a no-op.
func (n *NoopRecorder) IncStoreError(kind string) {}

// IncConnectionEstablished is a no-op.
func (n *NoopRecorder) IncConnectionEstablished() {}

// IncConnectionFailed is a no-op.
func (n *NoopRecorder) IncConnectionFailed() {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}
