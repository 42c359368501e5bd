package store

import "sync/atomic"

// MetricsSnapshot is a point-in-time copy of a store's counters.
type MetricsSnapshot struct {
	Dispatches    int64
	Reductions    int64
	Cancellations int64
	Fallbacks     int64
	Notifications int64
	Queued        int64
	Rejected      int64
	Failures      int64
}

type Metrics struct {
	dispatches    atomic.Int64
	reductions    atomic.Int64
	cancellations atomic.Int64
	fallbacks     atomic.Int64
	notifications atomic.Int64
	queued        atomic.Int64
	rejected      atomic.Int64
	failures      atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordDispatch()     { m.dispatches.Add(1) }
func (m *Metrics) RecordReduction()    { m.reductions.Add(1) }
func (m *Metrics) RecordCancellation() { m.cancellations.Add(1) }
func (m *Metrics) RecordFallback()     { m.fallbacks.Add(1) }
func (m *Metrics) RecordQueued()       { m.queued.Add(1) }
func (m *Metrics) RecordRejected()     { m.rejected.Add(1) }
func (m *Metrics) RecordFailure()      { m.failures.Add(1) }

func (m *Metrics) RecordNotifications(delta int) {
	m.notifications.Add(int64(delta))
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Dispatches:    m.dispatches.Load(),
		Reductions:    m.reductions.Load(),
		Cancellations: m.cancellations.Load(),
		Fallbacks:     m.fallbacks.Load(),
		Notifications: m.notifications.Load(),
		Queued:        m.queued.Load(),
		Rejected:      m.rejected.Load(),
		Failures:      m.failures.Load(),
	}
}
