// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-blockcipher.
//
// go-blockcipher is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for go-blockcipher.
// It exposes mode-engine operation counters and latency histograms, batch
// and worker-pool gauges, error counters, and process resource gauges.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all blockcipher metrics
	Namespace = "blockcipher"

	// Label names
	LabelOperation = "operation"
	LabelMode      = "mode"
	LabelCipher    = "cipher"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"
	StatusTimeout = "timeout"

	// Operation names
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
)

var (
	// OperationsTotal counts whole-message mode operations by direction,
	// mode, cipher and outcome.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of mode operations by direction, mode, cipher, and status",
		},
		[]string{LabelOperation, LabelMode, LabelCipher, LabelStatus},
	)

	// OperationDuration tracks how long whole-message operations take.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of mode operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
		},
		[]string{LabelOperation, LabelMode, LabelCipher},
	)

	// ErrorsTotal counts failures by error kind, e.g. "invalid_argument",
	// "out_of_bounds", "timeout".
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by direction, mode, cipher, and error type",
		},
		[]string{LabelOperation, LabelMode, LabelCipher, LabelErrorType},
	)

	// BlocksTotal counts cipher blocks transformed.
	BlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "blocks_total",
			Help:      "Total number of blocks transformed by cipher",
		},
		[]string{LabelCipher},
	)

	// BatchesTotal counts batches submitted to the worker pool by outcome.
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "pool",
			Name:      "batches_total",
			Help:      "Total number of task batches by status",
		},
		[]string{LabelStatus},
	)

	// BatchDuration tracks how long the pool takes to drain a batch.
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "pool",
			Name:      "batch_duration_seconds",
			Help:      "Duration of task batches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// TasksTotal counts tasks dispatched to workers.
	TasksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "pool",
			Name:      "tasks_total",
			Help:      "Total number of tasks dispatched to workers",
		},
	)

	// PoolWorkers is the number of live worker goroutines.
	PoolWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "pool",
			Name:      "workers",
			Help:      "Number of live worker goroutines",
		},
	)

	// PoolState is the pool lifecycle state as a number (0 idle,
	// 1 running, 2 shutting down, 3 terminated).
	PoolState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "pool",
			Name:      "state",
			Help:      "Worker pool lifecycle state (0 idle, 1 running, 2 shutting down, 3 terminated)",
		},
	)

	// Goroutines tracks the current number of goroutines.
	// Updated periodically by the resource collector.
	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "goroutines",
			Help:      "Current number of goroutines",
		},
	)

	// MemoryAllocBytes tracks the current bytes of allocated heap objects.
	MemoryAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_alloc_bytes",
			Help:      "Current bytes of allocated heap objects",
		},
	)

	// MemorySysBytes tracks the total bytes of memory obtained from the OS.
	MemorySysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "memory_sys_bytes",
			Help:      "Total bytes of memory obtained from the OS",
		},
	)

	// GCPauseTotalSeconds tracks the cumulative time spent in GC stop-the-world pauses.
	GCPauseTotalSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "gc_pause_total_seconds",
			Help:      "Cumulative time spent in GC stop-the-world pauses",
		},
	)

	// Uptime tracks seconds since the resource collector started.
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the resource collector started",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records a whole-message operation with its duration
// and status.
//
// Example:
//
//	start := time.Now()
//	out, err := engine.EncryptCBC(msg)
//	status := metrics.StatusSuccess
//	if err != nil {
//	    status = metrics.StatusError
//	}
//	metrics.RecordOperation(metrics.OpEncrypt, "cbc", "feistel", status, time.Since(start).Seconds())
func RecordOperation(operation, mode, cipher, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, mode, cipher, status).Inc()
	OperationDuration.WithLabelValues(operation, mode, cipher).Observe(duration)
}

// RecordError records a failure of the given kind.
func RecordError(operation, mode, cipher, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, mode, cipher, errorType).Inc()
}

// RecordBlocks adds n transformed blocks for a cipher.
func RecordBlocks(cipher string, n int) {
	if !enabled.Load() || n <= 0 {
		return
	}
	BlocksTotal.WithLabelValues(cipher).Add(float64(n))
}

// RecordBatch records one batch of size tasks.
func RecordBatch(status string, size int, duration float64) {
	if !enabled.Load() {
		return
	}
	BatchesTotal.WithLabelValues(status).Inc()
	BatchDuration.Observe(duration)
	TasksTotal.Add(float64(size))
}

// SetPoolWorkers sets the live worker count.
func SetPoolWorkers(n int) {
	if !enabled.Load() {
		return
	}
	PoolWorkers.Set(float64(n))
}

// SetPoolState sets the pool lifecycle state.
func SetPoolState(state int) {
	if !enabled.Load() {
		return
	}
	PoolState.Set(float64(state))
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
