package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/policy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics provides Prometheus metrics for slicecfg. A Metrics built from a
// disabled config records nothing.
type Metrics struct {
	config MetricsConfig

	// Option write metrics
	optionWrites  *prometheus.CounterVec
	errorsByClass *prometheus.CounterVec

	// Preset metrics
	presetOperations *prometheus.CounterVec

	// Policy metrics
	policyEvaluations *prometheus.CounterVec
	policyViolations  *prometheus.CounterVec
	policyDuration    prometheus.Histogram

	// Script metrics
	scriptRuns     *prometheus.CounterVec
	scriptDuration prometheus.Histogram

	// File metrics
	fileReloads   *prometheus.CounterVec
	activeWatches prometheus.Gauge

	// Command metrics
	commandDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var _ config.Observer = (*Metrics)(nil)

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		optionWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "option_writes_total",
				Help:      "Total number of option writes by outcome",
			},
			[]string{"status"},
		),
		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of configuration errors by error class",
			},
			[]string{"class"},
		),

		presetOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "preset_operations_total",
				Help:      "Total number of preset library operations",
			},
			[]string{"operation", "status"},
		),

		policyEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_evaluations_total",
				Help:      "Total number of policy evaluations by decision",
			},
			[]string{"decision"},
		),
		policyViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_violations_total",
				Help:      "Total number of policy violations",
			},
			[]string{"policy", "severity"},
		),
		policyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "policy_evaluation_duration_seconds",
				Help:      "Duration of policy evaluation in seconds",
				Buckets:   buckets,
			},
		),

		scriptRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "script_runs_total",
				Help:      "Total number of Starlark script runs",
			},
			[]string{"status"},
		),
		scriptDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "script_duration_seconds",
				Help:      "Duration of Starlark script runs in seconds",
				Buckets:   buckets,
			},
		),

		fileReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "file_reloads_total",
				Help:      "Total number of profile file reloads",
			},
			[]string{"status"},
		),
		activeWatches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_watches",
				Help:      "Current number of watched profile files",
			},
		),

		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "command_duration_seconds",
				Help:      "Duration of CLI commands in seconds",
				Buckets:   buckets,
			},
			[]string{"command", "status"},
		),
	}

	registry.MustRegister(
		m.optionWrites,
		m.errorsByClass,
		m.presetOperations,
		m.policyEvaluations,
		m.policyViolations,
		m.policyDuration,
		m.scriptRuns,
		m.scriptDuration,
		m.fileReloads,
		m.activeWatches,
		m.commandDuration,
	)

	return m, nil
}

// Registry returns the registry the metrics are registered with, or nil when
// metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}

// Option Metrics

// ObserveWrite implements config.Observer. Failed writes are also counted
// by error class.
func (m *Metrics) ObserveWrite(key string, err error) {
	if m.optionWrites == nil {
		return
	}
	m.optionWrites.WithLabelValues(status(err)).Inc()
	if err != nil {
		m.RecordError(err)
	}
}

// RecordError counts err under its configuration error class, or "other".
func (m *Metrics) RecordError(err error) {
	if m.errorsByClass == nil || err == nil {
		return
	}
	class, ok := config.ClassOf(err)
	if !ok {
		class = "other"
	}
	m.errorsByClass.WithLabelValues(string(class)).Inc()
}

// Preset Metrics

// RecordPresetOperation records a preset library operation such as "save".
func (m *Metrics) RecordPresetOperation(operation string, err error) {
	if m.presetOperations == nil {
		return
	}
	m.presetOperations.WithLabelValues(operation, status(err)).Inc()
}

// Policy Metrics

// RecordPolicyResult records the decision, violations and duration of a
// policy evaluation.
func (m *Metrics) RecordPolicyResult(result *policy.Result) {
	if m.policyEvaluations == nil || result == nil {
		return
	}
	decision := "allowed"
	if !result.Allowed {
		decision = "denied"
	}
	m.policyEvaluations.WithLabelValues(decision).Inc()
	for _, v := range result.Violations {
		m.policyViolations.WithLabelValues(v.Policy, string(v.Severity)).Inc()
	}
	m.policyDuration.Observe(result.Duration.Seconds())
}

// Script Metrics

// RecordScriptRun records a Starlark script run.
func (m *Metrics) RecordScriptRun(duration time.Duration, err error) {
	if m.scriptRuns == nil {
		return
	}
	m.scriptRuns.WithLabelValues(status(err)).Inc()
	m.scriptDuration.Observe(duration.Seconds())
}

// File Metrics

// RecordFileReload records a reload of a watched profile file.
func (m *Metrics) RecordFileReload(err error) {
	if m.fileReloads == nil {
		return
	}
	m.fileReloads.WithLabelValues(status(err)).Inc()
}

// SetActiveWatches sets the current number of watched files.
func (m *Metrics) SetActiveWatches(count float64) {
	if m.activeWatches == nil {
		return
	}
	m.activeWatches.Set(count)
}

// Command Metrics

// RecordCommand records the duration of a CLI command.
func (m *Metrics) RecordCommand(command string, duration time.Duration, err error) {
	if m.commandDuration == nil {
		return
	}
	m.commandDuration.WithLabelValues(command, status(err)).Observe(duration.Seconds())
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer serves the metrics endpoint until ctx is done. It is a
// no-op when metrics are disabled or no listen address is configured.
func (m *Metrics) StartMetricsServer(ctx context.Context) error {
	if !m.config.Enabled || m.config.ListenAddress == "" {
		return nil
	}

	ln, err := net.Listen("tcp", m.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", m.config.ListenAddress, err)
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Log error but don't fail the application
			fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
		}
	}()

	return nil
}
