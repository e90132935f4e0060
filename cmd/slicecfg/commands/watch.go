package commands

import (
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/configfile"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/openfroyo/slicecfg/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newWatchCommand() *cobra.Command {
	var (
		debounce      time.Duration
		ignoreUnknown bool
		policyPaths   []string
		watchPolicies bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Reload a profile whenever it changes",
		Long: `Watch a profile file and reload it on every change. Each reload logs
the options whose values changed and re-runs the policy checks. A file
that fails to load is reported and the last good profile is kept.

Runs until interrupted.`,
		Example: `  # Watch a profile while editing it
  slicecfg watch pla.ini

  # Also reload site policies when they change
  slicecfg watch pla.ini --policy ./policies --watch-policies`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			op := telemetry.StartCommand(cmd.Context(), "watch")
			defer func() { op.End(err) }()
			ctx := telemetry.WithProfileContext(op.Ctx, args[0])
			logger := componentLogger(ctx, "watch")
			metrics := metricsFrom(ctx)

			engine, err := newPolicyEngine(ctx, policyPaths)
			if err != nil {
				return err
			}
			if watchPolicies && len(policyPaths) > 0 {
				loader, err := engine.WatchPolicies(ctx, policyPaths)
				if err != nil {
					return err
				}
				defer loader.StopWatching()
			}

			loadOpts := []configfile.Option{}
			if ignoreUnknown {
				loadOpts = append(loadOpts, configfile.IgnoreUnknown())
			}
			watcher := configfile.NewWatcher(args[0], printconfig.Schema(), logger,
				configfile.WithDebounce(debounce),
				configfile.WithLoadOptions(loadOpts...),
				configfile.WithErrorHandler(func(err error) {
					if metrics != nil {
						metrics.RecordFileReload(err)
						metrics.RecordError(err)
					}
				}),
			)

			onReload := func(cfg *config.Dynamic, changed []string) {
				if metrics != nil {
					metrics.RecordFileReload(nil)
				}
				for _, key := range changed {
					if v, err := cfg.Lookup(key); err == nil {
						logger.Debug().Str("option", key).Str("value", v.Serialize()).Msg("Option changed")
					}
				}
				if _, err := checkPolicies(ctx, engine, cfg, args[0], "watch"); err != nil {
					logger.Error().Err(err).Msg("Profile rejected by policy")
				}
			}

			if err := watcher.Start(ctx, onReload); err != nil {
				return err
			}
			defer watcher.Close()
			if metrics != nil {
				metrics.SetActiveWatches(1)
				defer metrics.SetActiveWatches(0)
			}

			<-ctx.Done()
			logger.Info().Msg("Stopped watching")
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "wait this long for writes to settle")
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "skip options the schema does not define")
	cmd.Flags().StringSliceVar(&policyPaths, "policy", nil, "additional policy files or directories")
	cmd.Flags().BoolVar(&watchPolicies, "watch-policies", false, "reload --policy files when they change")

	return cmd
}
