package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/configfile"
	"github.com/openfroyo/slicecfg/pkg/cueschema"
	"github.com/openfroyo/slicecfg/pkg/policy"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/openfroyo/slicecfg/pkg/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose       bool
	jsonOutput    bool
	dbPath        string
	metricsAddr   string
	traceExporter string
	traceEndpoint string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	var tel *telemetry.Telemetry

	rootCmd := &cobra.Command{
		Use:   "slicecfg",
		Short: "slicecfg - typed print profile configuration",
		Long: `slicecfg manages 3D printer slicing profiles against a typed,
self-describing option schema.

Features:
  - Option catalog with kinds, bounds, enums, aliases and shortcuts
  - Compose profiles from ini, yaml and cue files plus command-line flags
  - Validation against a generated CUE schema and Rego policies
  - Starlark profile scripts
  - A named preset library backed by SQLite
  - Live reload of profile files`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			cfg := telemetry.DefaultConfig()
			cfg.ServiceVersion = version
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if metricsAddr != "" {
				cfg.Metrics.ListenAddress = metricsAddr
			}
			if traceExporter != "" {
				cfg.Tracing.Enabled = true
				cfg.Tracing.Exporter = traceExporter
				cfg.Tracing.Endpoint = traceEndpoint
			}

			var err error
			tel, err = telemetry.NewTelemetry(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}

			ctx := tel.WithContext(cmd.Context())
			if err := tel.StartMetricsServer(ctx); err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if tel == nil {
				return nil
			}
			return tel.Shutdown(context.Background())
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "preset database path (default: <user config dir>/slicecfg/presets.db)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. localhost:9090")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace", "", "trace exporter (stdout, otlp)")
	rootCmd.PersistentFlags().StringVar(&traceEndpoint, "trace-endpoint", "localhost:4317", "OTLP collector address")

	// Add subcommands
	rootCmd.AddCommand(newOptionsCommand())
	rootCmd.AddCommand(newDescribeCommand())
	rootCmd.AddCommand(newComposeCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newCUECommand())
	rootCmd.AddCommand(newScriptCommand())
	rootCmd.AddCommand(newPresetCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// componentLogger returns the context logger tagged with component.
func componentLogger(ctx context.Context, component string) zerolog.Logger {
	if tel := telemetry.FromTelemetryContext(ctx); tel != nil {
		return tel.Logger.NewComponentLogger(component).Zerolog()
	}
	return log.Logger.With().Str("component", component).Logger()
}

// metricsFrom returns the metrics of the command telemetry, or nil.
func metricsFrom(ctx context.Context) *telemetry.Metrics {
	if tel := telemetry.FromTelemetryContext(ctx); tel != nil {
		return tel.Metrics
	}
	return nil
}

// accessorOptions attaches the write metrics and span events to an
// accessor when telemetry is running.
func accessorOptions(ctx context.Context) []config.AccessorOption {
	var opts []config.AccessorOption
	for _, obs := range telemetry.WriteObservers(ctx) {
		opts = append(opts, config.WithObserver(obs))
	}
	return opts
}

// newProfile returns an empty dynamic config, seeded with every default
// when full is set.
func newProfile(full bool) (*config.Dynamic, error) {
	profile := printconfig.NewDynamicPrintConfig()
	if full {
		if err := config.Apply(profile, printconfig.NewFullPrintConfig(), false); err != nil {
			return nil, fmt.Errorf("failed to seed defaults: %w", err)
		}
	}
	return profile, nil
}

// loadProfiles applies each file to store in order. CUE documents are
// validated against the generated schema as they are read.
func loadProfiles(ctx context.Context, files []string, store config.Store, ignoreUnknown bool) error {
	var validator *cueschema.Validator
	for _, file := range files {
		if strings.EqualFold(filepath.Ext(file), ".cue") && validator == nil {
			v, err := cueschema.NewValidator(store.Schema())
			if err != nil {
				return err
			}
			validator = v
		}
		if err := loadProfile(ctx, file, store, validator, ignoreUnknown); err != nil {
			return err
		}
	}
	return nil
}

func loadProfile(ctx context.Context, file string, store config.Store, validator *cueschema.Validator, ignoreUnknown bool) (err error) {
	op := telemetry.StartProfileOperation(ctx, "load", file)
	defer func() { op.End(err) }()

	if strings.EqualFold(filepath.Ext(file), ".cue") {
		if err := validator.LoadFile(file, store); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	} else {
		opts := []configfile.Option{}
		if ignoreUnknown {
			opts = append(opts, configfile.IgnoreUnknown())
		}
		for _, obs := range telemetry.WriteObservers(op.Ctx) {
			opts = append(opts, configfile.WithObserver(obs))
		}
		if err := configfile.LoadFile(file, store, opts...); err != nil {
			return err
		}
	}
	op.Logger.Debug("Profile loaded")
	return nil
}

// writeProfile saves store to outPath, or prints it to w in format when no
// path is given.
func writeProfile(ctx context.Context, w io.Writer, store config.Store, outPath, format string) (err error) {
	if outPath != "" {
		op := telemetry.StartProfileOperation(ctx, "save", outPath)
		defer func() { op.End(err) }()
		return configfile.SaveFile(outPath, store)
	}
	f, err := configfile.ParseFormat(format)
	if err != nil {
		return err
	}
	return configfile.Write(w, f, store)
}

// newPolicyEngine returns an engine with the built-in policies plus any
// loaded from paths.
func newPolicyEngine(ctx context.Context, paths []string) (*policy.Engine, error) {
	engine, err := policy.NewEngine(componentLogger(ctx, "policy"))
	if err != nil {
		return nil, fmt.Errorf("failed to create policy engine: %w", err)
	}
	if len(paths) > 0 {
		if err := engine.LoadPolicies(ctx, paths); err != nil {
			return nil, fmt.Errorf("failed to load policies: %w", err)
		}
	}
	return engine, nil
}

// checkPolicies evaluates store and logs every violation. It fails when a
// blocking violation is found.
func checkPolicies(ctx context.Context, engine *policy.Engine, store config.Store, profile, operation string) (*policy.Result, error) {
	result, err := engine.Evaluate(ctx, store, &policy.Context{Profile: profile, Operation: operation})
	if err != nil {
		return nil, err
	}
	if m := metricsFrom(ctx); m != nil {
		m.RecordPolicyResult(result)
	}

	logger := componentLogger(ctx, "policy")
	for _, v := range result.Violations {
		ev := logger.Warn()
		if v.Severity.Blocking() {
			ev = logger.Error()
		}
		ev.Str("policy", v.Policy).Str("option", v.Key).Str("severity", string(v.Severity)).Msg(v.Message)
	}
	for _, w := range result.Warnings {
		logger.Warn().Msg(w)
	}

	if !result.Allowed {
		return result, fmt.Errorf("%s: %d policy violation(s) block this profile", profile, result.Count(policy.SeverityError))
	}
	return result, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
