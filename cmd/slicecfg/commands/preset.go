package commands

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"text/tabwriter"

	"github.com/openfroyo/slicecfg/pkg/stores"
	"github.com/openfroyo/slicecfg/pkg/telemetry"
	"github.com/spf13/cobra"
)

// defaultDBPath returns the preset database under the user config
// directory, creating the directory if needed.
func defaultDBPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	dir = filepath.Join(dir, "slicecfg")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "presets.db"), nil
}

// openPresetStore opens and migrates the preset database named by --db.
func openPresetStore(ctx context.Context) (*stores.SQLiteStore, error) {
	path := dbPath
	if path == "" {
		var err error
		if path, err = defaultDBPath(); err != nil {
			return nil, err
		}
	}

	actor := "unknown"
	if u, err := user.Current(); err == nil {
		actor = u.Username
	}

	store, err := stores.NewSQLiteStore(stores.Config{Path: path, Actor: actor},
		stores.WithLogger(componentLogger(ctx, "preset")))
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// presetOp runs fn against the preset store inside an instrumented command
// and records the preset operation metric.
func presetOp(cmd *cobra.Command, operation string, fn func(ctx context.Context, store *stores.SQLiteStore) error) (err error) {
	op := telemetry.StartCommand(cmd.Context(), "preset."+operation)
	defer func() {
		if m := metricsFrom(op.Ctx); m != nil {
			m.RecordPresetOperation(operation, err)
		}
		op.End(err)
	}()

	store, err := openPresetStore(op.Ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(op.Ctx, store)
}

func newPresetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage the preset library",
		Long: `Save, load and manage named profiles in a local SQLite database.

Presets store option values in their text form, so a preset saved from a
partial profile only holds the options that profile set. Every change is
recorded in an audit log.`,
	}

	cmd.AddCommand(newPresetSaveCommand())
	cmd.AddCommand(newPresetLoadCommand())
	cmd.AddCommand(newPresetListCommand())
	cmd.AddCommand(newPresetDeleteCommand())
	cmd.AddCommand(newPresetHistoryCommand())

	return cmd
}

func newPresetSaveCommand() *cobra.Command {
	var (
		description   string
		ignoreUnknown bool
	)

	cmd := &cobra.Command{
		Use:   "save <name> <files...>",
		Short: "Save profile files as a preset",
		Long: `Load the given profile files in order and save the result under name.
An existing preset with the same name is replaced.`,
		Example: `  # Save a filament profile
  slicecfg preset save pla pla.ini --description "Generic PLA"

  # Save a merged profile
  slicecfg preset save mk3-pla printer.ini pla.yaml`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetOp(cmd, "save", func(ctx context.Context, store *stores.SQLiteStore) error {
				profile, err := newProfile(false)
				if err != nil {
					return err
				}
				if err := loadProfiles(ctx, args[1:], profile, ignoreUnknown); err != nil {
					return err
				}
				preset, err := store.SavePreset(ctx, args[0], description, profile)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), preset)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved preset %s (%d options)\n", preset.Name, len(preset.Values))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "preset description")
	cmd.Flags().BoolVar(&ignoreUnknown, "ignore-unknown", false, "skip options the schema does not define")

	return cmd
}

func newPresetLoadCommand() *cobra.Command {
	var (
		outPath string
		format  string
		full    bool
	)

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Write a preset as a profile",
		Long: `Load a preset and write it as a profile file. Options the current
schema no longer defines are skipped.`,
		Example: `  # Print a preset
  slicecfg preset load pla

  # Complete profile with defaults for unset options
  slicecfg preset load pla --full -o pla.ini`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetOp(cmd, "load", func(ctx context.Context, store *stores.SQLiteStore) error {
				profile, err := newProfile(full)
				if err != nil {
					return err
				}
				if _, err := store.LoadPreset(ctx, args[0], profile, true); err != nil {
					return err
				}
				return writeProfile(ctx, cmd.OutOrStdout(), profile, outPath, format)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the profile to this file (format from extension)")
	cmd.Flags().StringVar(&format, "format", "ini", "stdout format (ini, yaml)")
	cmd.Flags().BoolVar(&full, "full", false, "fill unset options with defaults")

	return cmd
}

func newPresetListCommand() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetOp(cmd, "list", func(ctx context.Context, store *stores.SQLiteStore) error {
				presets, err := store.ListPresets(ctx, limit, offset)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), presets)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tOPTIONS\tUPDATED\tDESCRIPTION")
				for _, p := range presets {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", p.Name, p.Options, p.UpdatedAt.Local().Format("2006-01-02 15:04"), p.Description)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of presets")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of presets to skip")

	return cmd
}

func newPresetDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetOp(cmd, "delete", func(ctx context.Context, store *stores.SQLiteStore) error {
				if err := store.DeletePreset(ctx, args[0]); err != nil {
					return err
				}
				if !jsonOutput {
					fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %s\n", args[0])
				}
				return nil
			})
		},
	}

	return cmd
}

func newPresetHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [name]",
		Short: "Show the preset audit log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presetOp(cmd, "history", func(ctx context.Context, store *stores.SQLiteStore) error {
				var name *string
				if len(args) == 1 {
					name = &args[0]
				}
				entries, err := store.ListAuditEntries(ctx, name, limit, 0)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tACTION\tPRESET\tACTOR")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Action, e.Preset, e.Actor)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries")

	return cmd
}
