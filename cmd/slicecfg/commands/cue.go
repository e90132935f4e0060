package commands

import (
	"fmt"
	"os"

	"github.com/openfroyo/slicecfg/pkg/cueschema"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/spf13/cobra"
)

func newCUECommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "cue",
		Short: "Print the option schema as CUE",
		Long: `Render the print schema as a closed CUE definition. Profiles written
in CUE can be checked with "cue vet" against it or loaded directly by
compose and validate.`,
		Example: `  # Print the definition
  slicecfg cue

  # Write it next to your profiles
  slicecfg cue -o schema.cue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := cueschema.Generate(printconfig.Schema())
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err := cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(outPath, src, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the definition to this file")

	return cmd
}
