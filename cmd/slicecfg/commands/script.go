package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/openfroyo/slicecfg/pkg/script"
	"github.com/openfroyo/slicecfg/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newScriptCommand() *cobra.Command {
	var (
		outPath       string
		format        string
		full          bool
		ignoreUnknown bool
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "script <file.star> [files...]",
		Short: "Apply a Starlark profile script",
		Long: `Load the given profile files, then run a Starlark script against the
result. Every top-level assignment whose name is an option key or alias
becomes a write; other globals are reported and ignored. A script with a
bad assignment changes nothing.

Scripts read the current profile through "config" and can call
option(key), abs_value(key) and percent(n).`,
		Example: `  # Derive speeds from the nozzle size
  slicecfg script fast.star base.ini -o fast.ini

  # Script alone over the defaults
  slicecfg script tune.star --format yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			op := telemetry.StartCommand(cmd.Context(), "script")
			defer func() { op.End(err) }()
			ctx := telemetry.WithProfileContext(op.Ctx, args[0])

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}

			profile, err := newProfile(full)
			if err != nil {
				return err
			}
			if err := loadProfiles(ctx, args[1:], profile, ignoreUnknown); err != nil {
				return err
			}

			opts := []script.Option{
				script.WithTimeout(timeout),
				script.WithLogger(componentLogger(ctx, "script")),
			}
			metrics := metricsFrom(ctx)
			if metrics != nil {
				opts = append(opts, script.WithObserver(metrics))
			}

			result, err := script.NewEvaluator(opts...).Apply(ctx, args[0], string(src), profile)
			if metrics != nil {
				metrics.RecordScriptRun(op.Timer.Duration(), err)
			}
			if err != nil {
				return err
			}
			logger := op.Logger.Zerolog()
			logger.Info().
				Strs("applied", result.Applied).
				Strs("ignored", result.Ignored).
				Msg("Script applied")

			return writeProfile(ctx, cmd.OutOrStdout(), profile, outPath, format)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the profile to this file (format from extension)")
	cmd.Flags().StringVar(&format, "format", "ini", "stdout format (ini, yaml)")
	cmd.Flags().BoolVar(&full, "full", true, "start from every default so the output is a complete profile")
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "skip options the schema does not define")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "maximum script run time")

	return cmd
}
