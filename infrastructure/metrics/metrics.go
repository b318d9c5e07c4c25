// Package metrics provides Prometheus metrics collection for the control
// plane: the admin HTTP surface, the executor's phase pipeline, the DDL
// orderer, and the process supervisor.
package metrics

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics exported by a moosectl process.
type Metrics struct {
	// HTTP metrics (admin surface: /healthz, /plan, /state).
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Error metrics.
	ErrorsTotal *prometheus.CounterVec

	// Executor metrics: one observation per phase per apply.
	ExecutorPhaseTotal    *prometheus.CounterVec
	ExecutorPhaseDuration *prometheus.HistogramVec

	// DDL ordering metrics.
	DdlOrderingTotal *prometheus.CounterVec

	// OLAP/KV state backend metrics.
	StateOperationsTotal   *prometheus.CounterVec
	StateOperationDuration *prometheus.HistogramVec
	MigrationLockWaitTotal prometheus.Counter

	// Process supervisor metrics.
	ProcessRestartsTotal  *prometheus.CounterVec
	ProcessUptimeSeconds  *prometheus.GaugeVec
	CoordinatorHoldTime   prometheus.Histogram
	CoordinatorActiveGate prometheus.Gauge

	// Service health.
	ServiceUptime prometheus.Gauge
	ServiceInfo   *prometheus.GaugeVec
}

// New creates a new Metrics instance with all collectors registered against
// the default Prometheus registry.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new Metrics instance with a custom registry.
func NewWithRegistry(serviceName string, registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moosectl_http_requests_total",
				Help: "Total number of admin HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moosectl_http_request_duration_seconds",
				Help:    "Admin HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method", "path"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "moosectl_http_requests_in_flight",
				Help: "Current number of admin HTTP requests being processed",
			},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moosectl_errors_total",
				Help: "Total number of errors by kind",
			},
			[]string{"service", "kind", "operation"},
		),

		ExecutorPhaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moosectl_executor_phase_total",
				Help: "Total number of executor phase runs by outcome",
			},
			[]string{"phase", "status"},
		),
		ExecutorPhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moosectl_executor_phase_duration_seconds",
				Help:    "Executor phase duration in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"phase"},
		),

		DdlOrderingTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moosectl_ddl_ordering_total",
				Help: "Total number of DDL ordering runs by outcome (ok, cycle)",
			},
			[]string{"plan", "outcome"},
		),

		StateOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moosectl_state_operations_total",
				Help: "Total number of state storage operations by backend and outcome",
			},
			[]string{"backend", "operation", "status"},
		),
		StateOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moosectl_state_operation_duration_seconds",
				Help:    "State storage operation duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
			},
			[]string{"backend", "operation"},
		),
		MigrationLockWaitTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "moosectl_migration_lock_contended_total",
				Help: "Total number of times acquiring the migration lock found it already held",
			},
		),

		ProcessRestartsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moosectl_process_restarts_total",
				Help: "Total number of supervised process restarts",
			},
			[]string{"registry", "process_id"},
		),
		ProcessUptimeSeconds: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moosectl_process_uptime_seconds",
				Help: "Uptime in seconds of the current run of a supervised process",
			},
			[]string{"registry", "process_id"},
		),
		CoordinatorHoldTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "moosectl_coordinator_processing_seconds",
				Help:    "Duration the processing coordinator held its write gate",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
		),
		CoordinatorActiveGate: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "moosectl_coordinator_gate_active",
				Help: "1 while the processing coordinator's write gate is held, else 0",
			},
		),

		ServiceUptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "moosectl_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
		ServiceInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "moosectl_info",
				Help: "Build and environment information",
			},
			[]string{"service", "version", "environment"},
		),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.RequestsTotal,
			m.RequestDuration,
			m.RequestsInFlight,
			m.ErrorsTotal,
			m.ExecutorPhaseTotal,
			m.ExecutorPhaseDuration,
			m.DdlOrderingTotal,
			m.StateOperationsTotal,
			m.StateOperationDuration,
			m.MigrationLockWaitTotal,
			m.ProcessRestartsTotal,
			m.ProcessUptimeSeconds,
			m.CoordinatorHoldTime,
			m.CoordinatorActiveGate,
			m.ServiceUptime,
			m.ServiceInfo,
		)
	}

	m.ServiceInfo.WithLabelValues(serviceName, "0.1.0", environment()).Set(1)

	return m
}

// RecordHTTPRequest records an admin HTTP request.
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(service, method, path, status).Inc()
	m.RequestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// RecordError records an error of the given kind during an operation.
func (m *Metrics) RecordError(service, kind, operation string) {
	m.ErrorsTotal.WithLabelValues(service, kind, operation).Inc()
}

// RecordExecutorPhase records an executor phase's outcome and duration.
func (m *Metrics) RecordExecutorPhase(phase, status string, duration time.Duration) {
	m.ExecutorPhaseTotal.WithLabelValues(phase, status).Inc()
	m.ExecutorPhaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordDdlOrdering records the outcome of ordering a teardown or setup plan.
func (m *Metrics) RecordDdlOrdering(plan, outcome string) {
	m.DdlOrderingTotal.WithLabelValues(plan, outcome).Inc()
}

// RecordStateOperation records a state storage operation's outcome and duration.
func (m *Metrics) RecordStateOperation(backend, operation, status string, duration time.Duration) {
	m.StateOperationsTotal.WithLabelValues(backend, operation, status).Inc()
	m.StateOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordMigrationLockContention records a failed migration lock acquisition
// attempt due to the lock already being held.
func (m *Metrics) RecordMigrationLockContention() {
	m.MigrationLockWaitTotal.Inc()
}

// RecordProcessRestart records a supervised process restart and its uptime
// prior to exiting.
func (m *Metrics) RecordProcessRestart(registry, processID string, uptime time.Duration) {
	m.ProcessRestartsTotal.WithLabelValues(registry, processID).Inc()
	m.ProcessUptimeSeconds.WithLabelValues(registry, processID).Set(uptime.Seconds())
}

// RecordCoordinatorHold records the duration the processing coordinator's
// write gate was held for a single begin_processing/guard-drop cycle.
func (m *Metrics) RecordCoordinatorHold(duration time.Duration) {
	m.CoordinatorHoldTime.Observe(duration.Seconds())
}

// SetCoordinatorGateActive sets whether the processing coordinator's write
// gate is currently held.
func (m *Metrics) SetCoordinatorGateActive(active bool) {
	if active {
		m.CoordinatorActiveGate.Set(1)
		return
	}
	m.CoordinatorActiveGate.Set(0)
}

// UpdateUptime updates the service uptime gauge.
func (m *Metrics) UpdateUptime(startTime time.Time) {
	m.ServiceUptime.Set(time.Since(startTime).Seconds())
}

// IncrementInFlight increments the in-flight requests counter.
func (m *Metrics) IncrementInFlight() {
	m.RequestsInFlight.Inc()
}

// DecrementInFlight decrements the in-flight requests counter.
func (m *Metrics) DecrementInFlight() {
	m.RequestsInFlight.Dec()
}

func environment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("ENVIRONMENT")))
	if env == "" {
		return "development"
	}
	return env
}

// Enabled returns whether Prometheus metrics should be exposed.
//
// Defaults:
//   - production: disabled unless explicitly enabled via METRICS_ENABLED
//   - non-production: enabled unless explicitly disabled via METRICS_ENABLED
func Enabled() bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("METRICS_ENABLED")))
	if raw == "" {
		return environment() != "production"
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Global metrics instance.
var (
	globalMetrics *Metrics
	globalMu      sync.Mutex
)

// Init initializes the global metrics instance.
func Init(serviceName string) *Metrics {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalMetrics == nil {
		globalMetrics = New(serviceName)
	}
	return globalMetrics
}

// Global returns the global metrics instance, creating one named "moosectl"
// on first use.
func Global() *Metrics {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalMetrics == nil {
		globalMetrics = New("moosectl")
	}
	return globalMetrics
}
