package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated uint64
	UsersListed  uint64

	StoreCreateCount   uint64
	StoreCreateTotalNs int64
	StoreListCount     uint64
	StoreListTotalNs   int64

	StoreConnectionErrors  uint64
	StoreValidationErrors  uint64
	StorePersistenceErrors uint64

	ConnectionsEstablished uint64
	ConnectionsFailed      uint64

	EventsPublished     uint64
	EventsPublishFailed uint64
}

// InMemoryRecorder stores metrics in memory. It backs /metrics and tests.
type InMemoryRecorder struct {
	usersCreated atomic.Uint64
	usersListed  atomic.Uint64

	storeCreateCount   atomic.Uint64
	storeCreateTotalNs atomic.Int64
	storeListCount     atomic.Uint64
	storeListTotalNs   atomic.Int64

	storeConnectionErrors  atomic.Uint64
	storeValidationErrors  atomic.Uint64
	storePersistenceErrors atomic.Uint64

	connectionsEstablished atomic.Uint64
	connectionsFailed      atomic.Uint64

	eventsPublished     atomic.Uint64
	eventsPublishFailed atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:           m.usersCreated.Load(),
		UsersListed:            m.usersListed.Load(),
		StoreCreateCount:       m.storeCreateCount.Load(),
		StoreCreateTotalNs:     m.storeCreateTotalNs.Load(),
		StoreListCount:         m.storeListCount.Load(),
		StoreListTotalNs:       m.storeListTotalNs.Load(),
		StoreConnectionErrors:  m.storeConnectionErrors.Load(),
		StoreValidationErrors:  m.storeValidationErrors.Load(),
		StorePersistenceErrors: m.storePersistenceErrors.Load(),
		ConnectionsEstablished: m.connectionsEstablished.Load(),
		ConnectionsFailed:      m.connectionsFailed.Load(),
		EventsPublished:        m.eventsPublished.Load(),
		EventsPublishFailed:    m.eventsPublishFailed.Load(),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	m.usersCreated.Add(1)
}

// IncUserListed increments the list request counter.
func (m *InMemoryRecorder) IncUserListed() {
	m.usersListed.Add(1)
}

// ObserveStoreDuration records the duration of a store round trip.
// Unknown operations are ignored.
func (m *InMemoryRecorder) ObserveStoreDuration(op string, duration time.Duration) {
	switch op {
	case OpCreate:
		m.storeCreateCount.Add(1)
		m.storeCreateTotalNs.Add(duration.Nanoseconds())
	case OpList:
		m.storeListCount.Add(1)
		m.storeListTotalNs.Add(duration.Nanoseconds())
	}
}

// IncStoreError increments the error counter for kind.
func (m *InMemoryRecorder) IncStoreError(kind string) {
	switch kind {
	case "connection":
		m.storeConnectionErrors.Add(1)
	case "validation":
		m.storeValidationErrors.Add(1)
	default:
		m.storePersistenceErrors.Add(1)
	}
}

// IncConnectionEstablished increments the established connection counter.
func (m *InMemoryRecorder) IncConnectionEstablished() {
	m.connectionsEstablished.Add(1)
}

// IncConnectionFailed increments the failed connection counter.
func (m *InMemoryRecorder) IncConnectionFailed() {
	m.connectionsFailed.Add(1)
}

// IncEventPublished increments the publish counter for status.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == "success" {
		m.eventsPublished.Add(1)
		return
	}
	m.eventsPublishFailed.Add(1)
}
