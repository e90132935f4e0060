package commands

import (
	"errors"
	"fmt"

	"github.com/openfroyo/slicecfg/pkg/cueschema"
	"github.com/openfroyo/slicecfg/pkg/policy"
	"github.com/openfroyo/slicecfg/pkg/telemetry"
	"github.com/spf13/cobra"
)

// validationReport is the --json output of validate.
type validationReport struct {
	File    string            `json:"file"`
	Valid   bool              `json:"valid"`
	Schema  []cueschema.Issue `json:"schema_issues,omitempty"`
	Policy  *policy.Result    `json:"policy,omitempty"`
	Message string            `json:"error,omitempty"`
}

func newValidateCommand() *cobra.Command {
	var (
		ignoreUnknown bool
		policyPaths   []string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a profile against the schema and policies",
		Long: `Validate a profile file (ini, yaml or cue).

This command checks:
  - every value parses for its option kind and lies within its bounds
  - the profile conforms to the generated CUE schema
  - Rego policies (built-in plus --policy) allow the combination of values

Only the options present in the file are checked.`,
		Example: `  # Validate a profile
  slicecfg validate pla.ini

  # Add site policies
  slicecfg validate pla.ini --policy ./policies

  # Report as JSON
  slicecfg validate pla.yaml --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			op := telemetry.StartCommand(cmd.Context(), "validate")
			defer func() { op.End(err) }()
			ctx := telemetry.WithProfileContext(op.Ctx, args[0])

			report := &validationReport{File: args[0]}
			defer func() {
				if !jsonOutput {
					return
				}
				report.Valid = err == nil
				if err != nil {
					report.Message = err.Error()
				}
				if perr := printJSON(cmd.OutOrStdout(), report); perr != nil && err == nil {
					err = perr
				}
			}()

			profile, err := newProfile(false)
			if err != nil {
				return err
			}
			if err := loadProfiles(ctx, args, profile, ignoreUnknown); err != nil {
				var verr *cueschema.ValidationError
				if errors.As(err, &verr) {
					report.Schema = verr.Issues
				}
				return err
			}

			validator, err := cueschema.NewValidator(profile.Schema())
			if err != nil {
				return err
			}
			if err := validator.Validate(profile); err != nil {
				var verr *cueschema.ValidationError
				if errors.As(err, &verr) {
					report.Schema = verr.Issues
				}
				return err
			}

			engine, err := newPolicyEngine(ctx, policyPaths)
			if err != nil {
				return err
			}
			result, err := checkPolicies(ctx, engine, profile, args[0], "validate")
			report.Policy = result
			if err != nil {
				return err
			}

			if !jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d options valid (%d warnings)\n",
					args[0], profile.Len(), result.Count(policy.SeverityWarning)+len(result.Warnings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "skip options the schema does not define")
	cmd.Flags().StringSliceVar(&policyPaths, "policy", nil, "additional policy files or directories")

	return cmd
}
