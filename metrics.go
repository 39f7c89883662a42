package authcore

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by authcore APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint8

const (
	// MetricLoginSuccess is an exported constant or variable used by the authentication core.
	MetricLoginSuccess MetricID = iota
	// MetricAuthSuccess is an exported constant or variable used by the authentication core.
	MetricAuthSuccess
	// MetricAuthRejected is an exported constant or variable used by the authentication core.
	MetricAuthRejected
	// MetricRefreshSuccess is an exported constant or variable used by the authentication core.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the authentication core.
	MetricRefreshFailure
	// MetricRefreshRotated is an exported constant or variable used by the authentication core.
	MetricRefreshRotated
	// MetricSessionSynced is an exported constant or variable used by the authentication core.
	MetricSessionSynced
	// MetricLogout is an exported constant or variable used by the authentication core.
	MetricLogout

	metricCount
)

// Metrics is a fixed set of lock-free counters maintained by the
// [Authenticator]. Increments happen on the hot path, so the implementation
// is a flat atomic array rather than a registry.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Value returns the current count for a single metric.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricCount {
		return 0
	}
	return m.counters[id].Load()
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	At time.Time

	LoginSuccess   uint64
	AuthSuccess    uint64
	AuthRejected   uint64
	RefreshSuccess uint64
	RefreshFailure uint64
	RefreshRotated uint64
	SessionSynced  uint64
	Logout         uint64
}

// Snapshot copies all counters at once. Individual loads are atomic; the
// snapshot as a whole is not, which is fine for monitoring output.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		At:             time.Now(),
		LoginSuccess:   m.Value(MetricLoginSuccess),
		AuthSuccess:    m.Value(MetricAuthSuccess),
		AuthRejected:   m.Value(MetricAuthRejected),
		RefreshSuccess: m.Value(MetricRefreshSuccess),
		RefreshFailure: m.Value(MetricRefreshFailure),
		RefreshRotated: m.Value(MetricRefreshRotated),
		SessionSynced:  m.Value(MetricSessionSynced),
		Logout:         m.Value(MetricLogout),
	}
}
