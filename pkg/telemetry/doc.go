// Package telemetry provides logging, tracing and metrics for slicecfg.
//
// The package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry) and metrics (Prometheus) behind one Telemetry value that
// the CLI builds at startup and passes down through the context.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceVersion = version
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx = tel.WithContext(ctx)
//
// Config is validated with struct tags before anything is built, so a bad
// level or an OTLP exporter without an endpoint fails early with every
// problem listed.
//
// # Structured Logging
//
//	logger := tel.Logger.NewComponentLogger("compose")
//	logger.WithProfile("pla.ini").WithOption("layer_height").Info("option overridden")
//	logger.WithErrorClass(err).Error("write rejected")
//
// WithErrorClass adds an error_class field for classified configuration
// errors (not_found, type_mismatch, out_of_range and so on).
//
// # Tracing
//
//	op := telemetry.StartCommand(ctx, "validate")
//	defer func() { op.End(err) }()
//
// Spans carry command, profile and option attributes. The stdout exporter
// writes to stderr so traces never mix with command output.
//
// # Metrics
//
// Metrics implements config.Observer, so it can be attached to any accessor
// to count writes and classify their failures:
//
//	acc := config.NewAccessor(store, config.WithObserver(tel.Metrics))
//
// Preset operations, policy decisions, script runs, file reloads and command
// durations have their own collectors. Metrics are kept in process unless
// MetricsConfig.ListenAddress is set, in which case StartMetricsServer serves
// them until its context is done.
package telemetry
