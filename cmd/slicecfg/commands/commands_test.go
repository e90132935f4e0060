package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/configfile"
	"github.com/openfroyo/slicecfg/pkg/cueschema"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
)

// run executes the root command with args and returns what it wrote to
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand("test", "none", "unknown")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// parseINI reads command output back into a dynamic config.
func parseINI(t *testing.T, out string) *config.Dynamic {
	t.Helper()
	cfg := printconfig.NewDynamicPrintConfig()
	if err := configfile.ReadINI(strings.NewReader(out), cfg); err != nil {
		t.Fatalf("failed to parse output: %v\n%s", err, out)
	}
	return cfg
}

func serialized(t *testing.T, store config.Store, key string) string {
	t.Helper()
	v, err := store.Lookup(key)
	if err != nil {
		t.Fatalf("Lookup(%s) error = %v", key, err)
	}
	return v.Serialize()
}

func TestOptionsCommand(t *testing.T) {
	out, err := run(t, "options", "--category", "infill", "--json")
	if err != nil {
		t.Fatalf("options failed: %v", err)
	}
	var listed []optionSummary
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("failed to decode output: %v", err)
	}
	if len(listed) == 0 {
		t.Fatal("no infill options listed")
	}
	found := false
	for _, o := range listed {
		if o.Category != "Infill" {
			t.Errorf("option %s has category %q", o.Key, o.Category)
		}
		if o.Key == "fill_pattern" {
			found = true
		}
	}
	if !found {
		t.Error("fill_pattern missing from infill options")
	}

	if _, err := run(t, "options", "--category", "nonsense"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestDescribeCommand(t *testing.T) {
	out, err := run(t, "describe", "travel_feed_rate")
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if !strings.HasPrefix(out, "travel_speed (") {
		t.Errorf("alias not resolved: %q", out)
	}
	if !strings.Contains(out, "default:    130") {
		t.Errorf("default missing: %q", out)
	}

	if _, err := run(t, "describe", "no_such_option"); err == nil {
		t.Error("expected error for unknown option")
	}
}

func TestCUECommand(t *testing.T) {
	out, err := run(t, "cue")
	if err != nil {
		t.Fatalf("cue failed: %v", err)
	}
	if !strings.Contains(out, cueschema.DefinitionName+": {") {
		t.Errorf("definition missing from output")
	}

	path := filepath.Join(t.TempDir(), "schema.cue")
	if _, err := run(t, "cue", "-o", path); err != nil {
		t.Fatalf("cue -o failed: %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("schema not written: %v", err)
	}
	if string(written) != out {
		t.Error("written schema differs from printed schema")
	}
}

func TestComposeCommand(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.ini", "layer_height = 0.2\nperimeters = 3\n")
	overrides := writeFile(t, dir, "overrides.yaml", "perimeters: 4\n")

	t.Run("files then flags", func(t *testing.T) {
		out, err := run(t, "compose", base, overrides, "--full=false", "--first-layer-height", "150%")
		if err != nil {
			t.Fatalf("compose failed: %v", err)
		}
		cfg := parseINI(t, out)
		want := map[string]string{
			"layer_height":       "0.2",
			"perimeters":         "4",
			"first_layer_height": "150%",
		}
		if cfg.Len() != len(want) {
			t.Errorf("composed %v, want only %d options", cfg.Keys(), len(want))
		}
		for key, value := range want {
			if got := serialized(t, cfg, key); got != value {
				t.Errorf("%s = %q, want %q", key, got, value)
			}
		}
	})

	t.Run("full profile", func(t *testing.T) {
		out, err := run(t, "compose", base, "--layer-height", "0.1")
		if err != nil {
			t.Fatalf("compose failed: %v", err)
		}
		cfg := parseINI(t, out)
		if want := len(printconfig.NewFullPrintConfig().Keys()); cfg.Len() != want {
			t.Errorf("full profile has %d options, want %d", cfg.Len(), want)
		}
		if got := serialized(t, cfg, "layer_height"); got != "0.1" {
			t.Errorf("layer_height = %q, flag should override the file", got)
		}
		if got := serialized(t, cfg, "travel_speed"); got != "130" {
			t.Errorf("travel_speed = %q, want default 130", got)
		}
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(dir, "out.yaml")
		if _, err := run(t, "compose", base, "--full=false", "-o", path); err != nil {
			t.Fatalf("compose failed: %v", err)
		}
		cfg := printconfig.NewDynamicPrintConfig()
		if err := configfile.LoadFile(path, cfg); err != nil {
			t.Fatalf("output not loadable: %v", err)
		}
		if got := serialized(t, cfg, "perimeters"); got != "3" {
			t.Errorf("perimeters = %q, want 3", got)
		}
	})

	t.Run("policy violation", func(t *testing.T) {
		_, err := run(t, "compose", "--min-fan-speed", "90", "--max-fan-speed", "50")
		if err == nil || !strings.Contains(err.Error(), "policy violation") {
			t.Fatalf("compose error = %v, want policy violation", err)
		}
		if _, err := run(t, "compose", "--min-fan-speed", "90", "--max-fan-speed", "50", "--skip-checks"); err != nil {
			t.Errorf("compose --skip-checks failed: %v", err)
		}
	})

	t.Run("bad flag value", func(t *testing.T) {
		if _, err := run(t, "compose", "--perimeters", "many"); err == nil {
			t.Error("expected error for bad flag value")
		}
	})

	t.Run("unknown key in file", func(t *testing.T) {
		legacy := writeFile(t, dir, "legacy.ini", "layer_height = 0.3\nretired_option = 1\n")
		if _, err := run(t, "compose", legacy); err == nil {
			t.Fatal("expected error for unknown key")
		}
		out, err := run(t, "compose", legacy, "--ignore-unknown", "--full=false")
		if err != nil {
			t.Fatalf("compose --ignore-unknown failed: %v", err)
		}
		if got := serialized(t, parseINI(t, out), "layer_height"); got != "0.3" {
			t.Errorf("layer_height = %q, want 0.3", got)
		}
	})
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		file      string
		content   string
		expectErr string
	}{
		{
			name:    "valid ini",
			file:    "good.ini",
			content: "layer_height = 0.2\nnozzle_diameter = 0.4\n",
		},
		{
			name:    "valid cue",
			file:    "good.cue",
			content: "layer_height: 0.2\nfill_pattern: \"honeycomb\"\n",
		},
		{
			name:      "layer thicker than nozzle",
			file:      "thick.ini",
			content:   "layer_height = 0.5\nnozzle_diameter = 0.4\n",
			expectErr: "policy violation",
		},
		{
			name:      "unparseable value",
			file:      "bad.ini",
			content:   "perimeters = many\n",
			expectErr: "perimeters",
		},
		{
			name:      "cue type error",
			file:      "bad.cue",
			content:   "layer_height: \"thin\"\n",
			expectErr: "layer_height",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			out, err := run(t, "validate", path)
			if tt.expectErr == "" {
				if err != nil {
					t.Fatalf("validate failed: %v", err)
				}
				if !strings.Contains(out, "options valid") {
					t.Errorf("unexpected output %q", out)
				}
				return
			}
			if err == nil {
				t.Fatalf("validate succeeded, want error containing %q", tt.expectErr)
			}
			if !strings.Contains(err.Error(), tt.expectErr) {
				t.Errorf("validate error = %v, want it to contain %q", err, tt.expectErr)
			}
		})
	}
}

func TestValidateCommandJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "thick.ini", "layer_height = 0.5\nnozzle_diameter = 0.4\n")
	out, err := run(t, "validate", path, "--json")
	if err == nil {
		t.Fatal("expected policy error")
	}

	var report struct {
		Valid  bool `json:"valid"`
		Policy struct {
			Allowed    bool `json:"allowed"`
			Violations []struct {
				Policy string `json:"policy"`
				Key    string `json:"key"`
			} `json:"violations"`
		} `json:"policy"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to decode report: %v\n%s", err, out)
	}
	if report.Valid || report.Policy.Allowed {
		t.Errorf("report = %+v, want invalid", report)
	}
	if len(report.Policy.Violations) != 1 || report.Policy.Violations[0].Key != "layer_height" {
		t.Errorf("violations = %+v", report.Policy.Violations)
	}
}

func TestScriptCommand(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.ini", "nozzle_diameter = 0.6\n")
	star := writeFile(t, dir, "tune.star", `
layer_height = option("nozzle_diameter")[0] * 0.5
first_layer_height = percent(120)
note = "not an option"
`)

	out, err := run(t, "script", star, base, "--full=false")
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	cfg := parseINI(t, out)
	for key, want := range map[string]string{
		"nozzle_diameter":    "0.6",
		"layer_height":       "0.3",
		"first_layer_height": "120%",
	} {
		if got := serialized(t, cfg, key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	if cfg.Has("note") {
		t.Error("non-option global was applied")
	}

	broken := writeFile(t, dir, "broken.star", "perimeters = \"many\"\n")
	if _, err := run(t, "script", broken); err == nil {
		t.Error("expected error for bad assignment")
	}
}

func TestPresetCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "presets.db")
	profile := writeFile(t, dir, "pla.ini", "temperature = 210\nbed_temperature = 60\n")

	out, err := run(t, "--db", db, "preset", "save", "pla", profile, "-d", "Generic PLA")
	if err != nil {
		t.Fatalf("preset save failed: %v", err)
	}
	if !strings.Contains(out, "saved preset pla (2 options)") {
		t.Errorf("unexpected save output %q", out)
	}

	out, err = run(t, "--db", db, "preset", "list", "--json")
	if err != nil {
		t.Fatalf("preset list failed: %v", err)
	}
	var listed []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Options     int    `json:"options"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "pla" || listed[0].Options != 2 || listed[0].Description != "Generic PLA" {
		t.Errorf("listed = %+v", listed)
	}

	out, err = run(t, "--db", db, "preset", "load", "pla")
	if err != nil {
		t.Fatalf("preset load failed: %v", err)
	}
	cfg := parseINI(t, out)
	if got := serialized(t, cfg, "temperature"); got != "210" {
		t.Errorf("temperature = %q, want 210", got)
	}
	if cfg.Len() != 2 {
		t.Errorf("loaded %v, want 2 options", cfg.Keys())
	}

	if _, err := run(t, "--db", db, "preset", "delete", "pla"); err != nil {
		t.Fatalf("preset delete failed: %v", err)
	}
	if _, err := run(t, "--db", db, "preset", "load", "pla"); err == nil {
		t.Error("expected error loading a deleted preset")
	}

	out, err = run(t, "--db", db, "preset", "history", "pla", "--json")
	if err != nil {
		t.Fatalf("preset history failed: %v", err)
	}
	var entries []struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != "preset.deleted" {
		t.Errorf("history = %+v", entries)
	}
}
