// Package observability provides domain metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InventoryOperations counts inventory mutations by operation and outcome.
	InventoryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "implantstock_inventory_operations_total",
		Help: "Inventory operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// StockUnitsConsumed counts implants taken out of stock.
	StockUnitsConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "implantstock_stock_units_consumed_total",
		Help: "Total number of implant units consumed",
	})

	// StockUnitsAdded counts implants received into stock through restocking.
	StockUnitsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "implantstock_stock_units_added_total",
		Help: "Total number of implant units added by restocking",
	})

	// LowStockAlerts counts implants that crossed into low stock.
	LowStockAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "implantstock_low_stock_alerts_total",
		Help: "Total number of low stock transitions",
	})

	// AuthAttempts counts identity operations by action and outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "implantstock_auth_attempts_total",
		Help: "Identity operations by action and outcome",
	}, []string{"action", "outcome"})

	// DatabaseQueryLatency records repository query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "implantstock_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketBackpressureDrops counts alert messages dropped because a client fell behind.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "implantstock_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// Outcome labels shared by the counters above.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordInventoryOperation counts one inventory operation. Errors that carry
// a client-facing AppError are reported as rejected by the caller.
func RecordInventoryOperation(operation, outcome string) {
	InventoryOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordAuthAttempt counts one identity operation.
func RecordAuthAttempt(action, outcome string) {
	AuthAttempts.WithLabelValues(action, outcome).Inc()
}
