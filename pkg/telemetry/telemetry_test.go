package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/policy"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr string
	}{
		{
			name:   "default",
			mutate: func(*Config) {},
		},
		{
			name:      "unknown level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			expectErr: "Logging.Level: failed oneof",
		},
		{
			name:      "unknown format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			expectErr: "Logging.Format",
		},
		{
			name:      "missing service name",
			mutate:    func(c *Config) { c.ServiceName = "" },
			expectErr: "ServiceName: failed required",
		},
		{
			name: "otlp without endpoint",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "otlp"
			},
			expectErr: "Tracing.Endpoint: failed required_if",
		},
		{
			name: "enabled tracing without exporter",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = ""
			},
			expectErr: "Tracing.Exporter: failed required_if",
		},
		{
			name:      "sampling rate above one",
			mutate:    func(c *Config) { c.Tracing.SamplingRate = 1.5 },
			expectErr: "Tracing.SamplingRate: failed lte=1",
		},
		{
			name:      "bad listen address",
			mutate:    func(c *Config) { c.Metrics.ListenAddress = "nowhere" },
			expectErr: "Metrics.ListenAddress",
		},
		{
			name: "relative metrics path",
			mutate: func(c *Config) {
				c.Metrics.ListenAddress = "localhost:9090"
				c.Metrics.Path = "metrics"
			},
			expectErr: "Metrics.Path: failed startswith",
		},
		{
			name:      "negative bucket",
			mutate:    func(c *Config) { c.Metrics.DefaultHistogramBuckets = []float64{0.1, -1} },
			expectErr: "Metrics.DefaultHistogramBuckets[1]",
		},
		{
			name: "disabled metrics need no namespace",
			mutate: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.Namespace = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() succeeded, want error containing %q", tt.expectErr)
			}
			if !strings.Contains(err.Error(), tt.expectErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.expectErr)
			}
		})
	}
}

func TestPresetConfigsValidate(t *testing.T) {
	for name, cfg := range map[string]*Config{
		"default":     DefaultConfig(),
		"production":  ProductionConfig(),
		"development": DevelopmentConfig(),
	} {
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s config: Validate() error = %v", name, err)
		}
	}
}

func newBufferLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewLogger(LoggingConfig{Level: level, Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.zlog = logger.zlog.Output(&buf)
	return logger, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("failed to decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggerFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug")

	logger.NewComponentLogger("compose").
		WithProfile("pla.ini").
		WithOption("layer_height").
		Info("option overridden")

	entry := decodeLine(t, buf)
	want := map[string]string{
		"component": "compose",
		"profile":   "pla.ini",
		"option":    "layer_height",
		"message":   "option overridden",
		"level":     "info",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("field %s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLoggerWithErrorClass(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")

	store := printconfig.NewFullPrintConfig()
	err := config.NewAccessor(store).SetString("layer_heigth", "0.2")
	if err == nil {
		t.Fatal("SetString() of an unknown key succeeded")
	}
	logger.WithErrorClass(err).Error("write rejected")

	entry := decodeLine(t, buf)
	if entry["error_class"] != string(config.ClassNotFound) {
		t.Errorf("error_class = %v, want %q", entry["error_class"], config.ClassNotFound)
	}
	if entry["error"] == nil {
		t.Error("error field missing")
	}

	buf.Reset()
	logger.WithErrorClass(errors.New("disk full")).Error("save failed")
	entry = decodeLine(t, buf)
	if _, ok := entry["error_class"]; ok {
		t.Errorf("unclassified error logged with error_class %v", entry["error_class"])
	}
}

func TestLoggerLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "warn")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info message logged at warn level: %s", buf.String())
	}
	logger.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn message not logged at warn level")
	}
}

func TestLoggerContext(t *testing.T) {
	logger, _ := newBufferLogger(t, "info")
	ctx := logger.WithContext(context.Background())
	if got := FromContext(ctx); got != logger {
		t.Error("FromContext() did not return the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() without a logger returned nil")
	}
	if got := logger.Zerolog().GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("Zerolog().GetLevel() = %v, want info", got)
	}
}

func TestLoggerTimeFormat(t *testing.T) {
	saved := zerolog.TimeFieldFormat
	t.Cleanup(func() { zerolog.TimeFieldFormat = saved })

	for _, format := range []string{"unix", "unixms", "unixmicro", "rfc3339"} {
		t.Run(format, func(t *testing.T) {
			if _, err := NewLogger(LoggingConfig{Level: "info", Format: "console", Output: "stderr", TimeFormat: format}); err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}

			var jsonBuf bytes.Buffer
			jsonLogger := zerolog.New(&jsonBuf).With().Timestamp().Logger()
			jsonLogger.Info().Msg("json")
			entry := decodeLine(t, &jsonBuf)
			_, numeric := entry["time"].(float64)
			if wantNumeric := format != "rfc3339"; numeric != wantNumeric {
				t.Errorf("time field %v: numeric = %v, want %v", entry["time"], numeric, wantNumeric)
			}

			var consoleBuf bytes.Buffer
			w := newConsoleWriter(&consoleBuf)
			w.NoColor = true
			consoleLogger := zerolog.New(w).With().Timestamp().Logger()
			consoleLogger.Info().Msg("console")
			fields := strings.Fields(consoleBuf.String())
			if len(fields) == 0 {
				t.Fatal("console writer produced no output")
			}
			ts, err := time.Parse(time.RFC3339, fields[0])
			if err != nil {
				t.Fatalf("console timestamp %q is not RFC 3339: %v", fields[0], err)
			}
			if d := time.Since(ts); d < -time.Minute || d > time.Minute {
				t.Errorf("console timestamp %v is %v away from now", ts, d)
			}
		})
	}
}

func newRecordingTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider, recorder
}

func eventAttrs(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestSpanObserver(t *testing.T) {
	provider, recorder := newRecordingTracer(t)
	_, span := provider.Tracer("test").Start(context.Background(), "profile.load")

	store := printconfig.NewFullPrintConfig()
	acc := config.NewAccessor(store, config.WithObserver(NewSpanObserver(span)))
	_ = acc.SetString("layer_height", "0.2")
	_ = acc.SetString("perimeters", "many")
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(ended))
	}
	events := ended[0].Events()
	if len(events) != 2 {
		t.Fatalf("span has %d events, want 2", len(events))
	}

	tests := []struct {
		key      string
		accepted bool
		class    string
	}{
		{"layer_height", true, ""},
		{"perimeters", false, string(config.ClassTypeMismatch)},
	}
	for i, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			ev := events[i]
			if ev.Name != "option.set" {
				t.Errorf("event name = %q, want option.set", ev.Name)
			}
			attrs := eventAttrs(ev.Attributes)
			if got := attrs[AttrOptionKey].AsString(); got != tt.key {
				t.Errorf("%s = %q, want %q", AttrOptionKey, got, tt.key)
			}
			if got := attrs[AttrOptionAccepted].AsBool(); got != tt.accepted {
				t.Errorf("%s = %v, want %v", AttrOptionAccepted, got, tt.accepted)
			}
			class, ok := attrs[AttrErrorClass]
			if tt.class == "" {
				if ok {
					t.Errorf("accepted write carries %s = %q", AttrErrorClass, class.AsString())
				}
			} else if class.AsString() != tt.class {
				t.Errorf("%s = %q, want %q", AttrErrorClass, class.AsString(), tt.class)
			}
		})
	}
}

func TestWriteObservers(t *testing.T) {
	if got := WriteObservers(context.Background()); len(got) != 0 {
		t.Errorf("WriteObservers() without telemetry = %d observers, want 0", len(got))
	}

	tel, err := NewTelemetry(DefaultConfig())
	if err != nil {
		t.Fatalf("NewTelemetry() error = %v", err)
	}
	defer tel.Shutdown(context.Background())
	ctx := tel.WithContext(context.Background())

	got := WriteObservers(ctx)
	if len(got) != 1 || got[0] != config.Observer(tel.Metrics) {
		t.Fatalf("WriteObservers() = %v, want only the metrics", got)
	}

	provider, recorder := newRecordingTracer(t)
	spanCtx, span := provider.Tracer("test").Start(ctx, "profile.save")
	got = WriteObservers(spanCtx)
	if len(got) != 2 {
		t.Fatalf("WriteObservers() with a recording span = %d observers, want 2", len(got))
	}

	store := printconfig.NewFullPrintConfig()
	var opts []config.AccessorOption
	for _, obs := range got {
		opts = append(opts, config.WithObserver(obs))
	}
	acc := config.NewAccessor(store, opts...)
	if err := acc.SetString("threads", "4"); err != nil {
		t.Fatalf("SetString() error = %v", err)
	}
	span.End()

	if n := counterValue(t, tel.Metrics, "slicecfg_option_writes_total", map[string]string{"status": StatusSuccess}); n != 1 {
		t.Errorf("successful writes = %v, want 1", n)
	}
	if events := recorder.Ended()[0].Events(); len(events) != 1 {
		t.Errorf("span has %d events, want 1", len(events))
	}
}

func TestStartProfileOperation(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug")
	ctx := logger.WithContext(context.Background())

	op := StartProfileOperation(ctx, "load", "pla.ini")
	if op.Span != nil {
		t.Error("StartProfileOperation() without telemetry started a span")
	}
	FromContext(op.Ctx).Debug("profile loaded")
	op.End(nil)

	entry := decodeLine(t, buf)
	if entry["profile"] != "pla.ini" {
		t.Errorf("profile field = %v, want pla.ini", entry["profile"])
	}

	tel, err := NewTelemetry(DefaultConfig())
	if err != nil {
		t.Fatalf("NewTelemetry() error = %v", err)
	}
	defer tel.Shutdown(context.Background())

	op = StartProfileOperation(tel.WithContext(context.Background()), "save", "pla.ini")
	if op.Span == nil {
		t.Fatal("StartProfileOperation() with telemetry started no span")
	}
	op.End(nil)

	families, err := tel.Metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "slicecfg_command_duration_seconds" && len(mf.GetMetric()) > 0 {
			t.Error("profile operation recorded a command duration")
		}
	}
}

// counterValue returns the value of the counter family name whose labels
// include every pair in labels.
func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range metric.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsObserveWrite(t *testing.T) {
	m, err := NewMetrics(DefaultConfig().Metrics)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	store := printconfig.NewFullPrintConfig()
	acc := config.NewAccessor(store, config.WithObserver(m))

	_ = acc.SetString("layer_height", "0.2")
	_ = acc.SetString("extruder", "2")
	_ = acc.SetString("perimeters", "many")
	_ = acc.SetString("fill_pattern", "zigzag")
	_ = acc.SetString("no_such_option", "1")

	tests := []struct {
		name   string
		metric string
		labels map[string]string
		want   float64
	}{
		{"successes", "slicecfg_option_writes_total", map[string]string{"status": StatusSuccess}, 2},
		{"failures", "slicecfg_option_writes_total", map[string]string{"status": StatusFailure}, 3},
		{"type mismatch", "slicecfg_errors_by_class_total", map[string]string{"class": "type_mismatch"}, 1},
		{"unknown token", "slicecfg_errors_by_class_total", map[string]string{"class": "unknown_token"}, 1},
		{"not found", "slicecfg_errors_by_class_total", map[string]string{"class": "not_found"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := counterValue(t, m, tt.metric, tt.labels); got != tt.want {
				t.Errorf("%s%v = %v, want %v", tt.metric, tt.labels, got, tt.want)
			}
		})
	}
}

func TestMetricsRecorders(t *testing.T) {
	m, err := NewMetrics(DefaultConfig().Metrics)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	m.RecordPresetOperation("save", nil)
	m.RecordPresetOperation("load", errors.New("preset not found"))
	m.RecordFileReload(nil)
	m.RecordScriptRun(3*time.Millisecond, nil)
	m.RecordError(errors.New("plain"))
	m.RecordPolicyResult(&policy.Result{
		Allowed: false,
		Violations: []policy.Violation{
			{Policy: "fan-speed", Severity: policy.SeverityError},
			{Policy: "layer-height", Severity: policy.SeverityError},
			{Policy: "layer-height", Severity: policy.SeverityError},
		},
		Duration: time.Millisecond,
	})

	checks := []struct {
		metric string
		labels map[string]string
		want   float64
	}{
		{"slicecfg_preset_operations_total", map[string]string{"operation": "save", "status": StatusSuccess}, 1},
		{"slicecfg_preset_operations_total", map[string]string{"operation": "load", "status": StatusFailure}, 1},
		{"slicecfg_file_reloads_total", map[string]string{"status": StatusSuccess}, 1},
		{"slicecfg_script_runs_total", map[string]string{"status": StatusSuccess}, 1},
		{"slicecfg_errors_by_class_total", map[string]string{"class": "other"}, 1},
		{"slicecfg_policy_evaluations_total", map[string]string{"decision": "denied"}, 1},
		{"slicecfg_policy_violations_total", map[string]string{"policy": "layer-height", "severity": "error"}, 2},
	}
	for _, c := range checks {
		if got := counterValue(t, m, c.metric, c.labels); got != c.want {
			t.Errorf("%s%v = %v, want %v", c.metric, c.labels, got, c.want)
		}
	}
}

func TestMetricsDisabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	if m.Registry() != nil {
		t.Error("disabled metrics have a registry")
	}

	// None of these may panic.
	m.ObserveWrite("layer_height", errors.New("boom"))
	m.RecordPresetOperation("save", nil)
	m.RecordPolicyResult(&policy.Result{Allowed: true})
	m.RecordScriptRun(time.Second, nil)
	m.RecordFileReload(nil)
	m.SetActiveWatches(1)
	m.RecordCommand("validate", time.Second, nil)

	if err := m.StartMetricsServer(context.Background()); err != nil {
		t.Errorf("StartMetricsServer() error = %v", err)
	}
}

func TestStartCommand(t *testing.T) {
	tel, err := NewTelemetry(DefaultConfig())
	if err != nil {
		t.Fatalf("NewTelemetry() error = %v", err)
	}
	defer tel.Shutdown(context.Background())

	ctx := tel.WithContext(context.Background())
	if FromTelemetryContext(ctx) != tel {
		t.Fatal("FromTelemetryContext() did not return the stored telemetry")
	}

	op := StartCommand(ctx, "validate")
	op.End(&config.Error{Class: config.ClassOutOfRange, Message: "value out of range"})

	if got := counterValue(t, tel.Metrics, "slicecfg_errors_by_class_total", map[string]string{"class": "out_of_range"}); got != 1 {
		t.Errorf("out_of_range errors = %v, want 1", got)
	}

	families, err := tel.Metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "slicecfg_command_duration_seconds" {
			for _, metric := range mf.GetMetric() {
				if metric.GetHistogram().GetSampleCount() == 1 {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("command duration not recorded")
	}
}

func TestStartOperationWithoutTelemetry(t *testing.T) {
	op := StartOperation(context.Background(), "load_profile")
	if op.Logger == nil || op.Timer == nil {
		t.Fatal("StartOperation() without telemetry returned an incomplete context")
	}
	op.End(nil)
}
