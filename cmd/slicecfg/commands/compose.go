package commands

import (
	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/cueschema"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/openfroyo/slicecfg/pkg/telemetry"
	"github.com/spf13/cobra"
)

func newComposeCommand() *cobra.Command {
	var (
		outPath       string
		format        string
		full          bool
		ignoreUnknown bool
		skipChecks    bool
		policyPaths   []string
		optionFlags   *schemaFlags
	)

	cmd := &cobra.Command{
		Use:   "compose [files...]",
		Short: "Merge profile files and flags into one profile",
		Long: `Compose a profile by loading ini, yaml and cue files in order and
then applying option flags. Later files override earlier ones and flags
override every file.

Every option with a command-line spec has a flag, e.g. --layer-height 0.2
or --temperature 200 --temperature 210 for per-extruder lists. Switches
accept --no-<name>.

The result is checked against the generated CUE schema and the policy set
before it is written.`,
		Example: `  # Merge a printer and a filament profile
  slicecfg compose printer.ini pla.yaml -o profile.ini

  # Override options from the command line
  slicecfg compose base.ini --layer-height 0.15 --first-layer-height 150%

  # Only the options that were set, as yaml
  slicecfg compose overrides.ini --full=false --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			op := telemetry.StartCommand(cmd.Context(), "compose")
			defer func() { op.End(err) }()
			ctx := op.Ctx

			profile, err := newProfile(full)
			if err != nil {
				return err
			}
			if err := loadProfiles(ctx, args, profile, ignoreUnknown); err != nil {
				return err
			}

			acc := config.NewAccessor(profile, accessorOptions(ctx)...)
			if err := optionFlags.apply(acc); err != nil {
				return err
			}
			logger := op.Logger.Zerolog()
			logger.Debug().Strs("flags", optionFlags.changed()).Int("options", profile.Len()).Msg("Profile composed")

			if !skipChecks {
				validator, err := cueschema.NewValidator(profile.Schema())
				if err != nil {
					return err
				}
				if err := validator.Validate(profile); err != nil {
					return err
				}
				engine, err := newPolicyEngine(ctx, policyPaths)
				if err != nil {
					return err
				}
				if _, err := checkPolicies(ctx, engine, profile, profileName(args, outPath), "compose"); err != nil {
					return err
				}
			}

			return writeProfile(ctx, cmd.OutOrStdout(), profile, outPath, format)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the profile to this file (format from extension)")
	cmd.Flags().StringVar(&format, "format", "ini", "stdout format (ini, yaml)")
	cmd.Flags().BoolVar(&full, "full", true, "start from every default so the output is a complete profile")
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "skip options the schema does not define")
	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "skip schema and policy checks")
	cmd.Flags().StringSliceVar(&policyPaths, "policy", nil, "additional policy files or directories")

	optionFlags = registerSchemaFlags(cmd.Flags(), printconfig.Schema())

	return cmd
}

// profileName labels a composed profile in logs and policy input.
func profileName(files []string, outPath string) string {
	switch {
	case outPath != "":
		return outPath
	case len(files) > 0:
		return files[len(files)-1]
	default:
		return "<flags>"
	}
}
