package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/spf13/cobra"
)

// optionSummary is the listing form of an option definition.
type optionSummary struct {
	Key      string `json:"key"`
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Label    string `json:"label,omitempty"`
	Default  string `json:"default"`
	CLI      string `json:"cli,omitempty"`
}

// optionDetail is an option definition with its default rendered as text.
type optionDetail struct {
	*config.OptionDef
	KindName string `json:"kind_name"`
	Default  string `json:"default"`
}

func defaultText(schema *config.Schema, key string) string {
	v, err := schema.NewValue(key)
	if err != nil {
		return ""
	}
	return v.Serialize()
}

func newOptionsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the option catalog",
		Long: `List every option the print schema defines with its kind, category
and default.`,
		Example: `  # List all options
  slicecfg options

  # List options of one category
  slicecfg options --category Infill

  # Machine readable listing
  slicecfg options --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := printconfig.Schema()

			var out []optionSummary
			for _, def := range schema.Defs() {
				if category != "" && !strings.EqualFold(def.Category, category) {
					continue
				}
				out = append(out, optionSummary{
					Key:      def.Key,
					Kind:     def.Kind.String(),
					Category: def.Category,
					Label:    def.DisplayLabel(),
					Default:  defaultText(schema, def.Key),
					CLI:      def.CLI,
				})
			}
			if category != "" && len(out) == 0 {
				return fmt.Errorf("no options in category %q (known: %s)", category, strings.Join(schema.Categories(), ", "))
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), out)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tKIND\tCATEGORY\tDEFAULT")
			for _, o := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Key, o.Kind, o.Category, o.Default)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list options of this category")

	return cmd
}

func newDescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <key>",
		Short: "Show an option definition",
		Long: `Show the full definition of one option. Aliases are resolved to the
canonical key.`,
		Example: `  # Describe an option
  slicecfg describe first_layer_height

  # Aliases resolve to their canonical option
  slicecfg describe travel_feed_rate --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := printconfig.Schema()
			key, err := schema.Resolver().Canonicalize(args[0])
			if err != nil {
				return err
			}
			def, err := schema.Lookup(key)
			if err != nil {
				return err
			}

			detail := optionDetail{
				OptionDef: def,
				KindName:  def.Kind.String(),
				Default:   defaultText(schema, key),
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), detail)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n", def.Key, def.Kind)
			if label := def.DisplayLabel(); label != "" {
				fmt.Fprintf(w, "  label:      %s\n", label)
			}
			if def.Category != "" {
				fmt.Fprintf(w, "  category:   %s\n", def.Category)
			}
			fmt.Fprintf(w, "  default:    %s\n", detail.Default)
			if def.SideText != "" {
				fmt.Fprintf(w, "  unit:       %s\n", def.SideText)
			}
			if def.Min != nil {
				fmt.Fprintf(w, "  min:        %g\n", *def.Min)
			}
			if def.Max != nil {
				fmt.Fprintf(w, "  max:        %g\n", *def.Max)
			}
			if def.RatioOver != "" {
				fmt.Fprintf(w, "  ratio over: %s\n", def.RatioOver)
			}
			if len(def.EnumValues) > 0 {
				fmt.Fprintf(w, "  values:     %s\n", strings.Join(def.EnumValues, ", "))
			}
			if len(def.Aliases) > 0 {
				fmt.Fprintf(w, "  aliases:    %s\n", strings.Join(def.Aliases, ", "))
			}
			if len(def.Shortcut) > 0 {
				fmt.Fprintf(w, "  sets:       %s\n", strings.Join(def.Shortcut, ", "))
			}
			if def.CLI != "" {
				if spec, err := config.ParseCLISpec(def.CLI); err == nil {
					fmt.Fprintf(w, "  flag:       --%s\n", spec.Name)
				}
			}
			if def.Tooltip != "" {
				fmt.Fprintf(w, "\n%s\n", def.Tooltip)
			}
			return nil
		},
	}

	return cmd
}
