package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gloria_poll_cycles_total",
		Help: "Completed upstream poll cycles, including empty ones.",
	})
	ordersSeen = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gloria_orders_seen_total",
		Help: "Raw orders returned by the upstream platform.",
	})
	ordersImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_imported_total",
		Help: "Net-new orders created from upstream polls.",
	})
	storeWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_store_write_failures_total",
		Help: "Order creations rejected by the store during sync.",
	})
	lastSyncTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "last_sync_timestamp_seconds",
		Help: "Unix time of the last completed sync cycle.",
	})
	pollFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gloria_poll_failures_total",
		Help: "Upstream polls degraded by a transport error or bad status.",
	})
)

// RecordPollFailure counts one degraded upstream poll. Package-level because
// the upstream client has no monitor instance of its own.
func RecordPollFailure() {
	pollFailures.Inc()
}

// SyncMonitor tracks sync engine activity for the health endpoint and
// feeds the prometheus collectors.
type SyncMonitor struct {
	mu            sync.RWMutex
	startTime     time.Time
	lastCycle     time.Time
	lastNewOrders int
	cycles        int64
	imported      int64
	writeFailures int64
}

// NewSyncMonitor creates a monitor; uptime counts from this call.
func NewSyncMonitor() *SyncMonitor {
	return &SyncMonitor{startTime: time.Now()}
}

// RecordCycle records one completed sync cycle: how many raw orders the
// upstream returned and how many were imported as new.
func (m *SyncMonitor) RecordCycle(seen, imported int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cycles++
	m.imported += int64(imported)
	m.lastNewOrders = imported
	m.lastCycle = time.Now()

	pollCycles.Inc()
	ordersSeen.Add(float64(seen))
	ordersImported.Add(float64(imported))
	lastSyncTimestamp.SetToCurrentTime()
}

// RecordStoreFailure records one order creation rejected by the store.
func (m *SyncMonitor) RecordStoreFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeFailures++
	storeWriteFailures.Inc()
}

// Snapshot returns the current counters for the health payload.
func (m *SyncMonitor) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := map[string]interface{}{
		"uptime_seconds":       time.Since(m.startTime).Seconds(),
		"sync_cycles":          m.cycles,
		"orders_imported":      m.imported,
		"store_write_failures": m.writeFailures,
		"last_new_orders":      m.lastNewOrders,
	}
	if !m.lastCycle.IsZero() {
		snapshot["last_cycle"] = m.lastCycle.Format(time.RFC3339)
	}
	return snapshot
}
