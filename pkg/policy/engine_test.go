package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	eng, err := NewEngine(logger)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

func TestNewEngine(t *testing.T) {
	eng := newTestEngine(t)

	policies := eng.ListPolicies()
	expected := []string{"extruder-index", "fan-speed", "layer-height", "temperature-limits"}
	if len(policies) != len(expected) {
		t.Fatalf("Expected %d built-in policies, got %d", len(expected), len(policies))
	}
	for i, name := range expected {
		if policies[i].Name != name {
			t.Errorf("Policy %d: expected %s, got %s", i, name, policies[i].Name)
		}
	}
}

func TestEvaluate_Defaults(t *testing.T) {
	eng := newTestEngine(t)
	cfg := printconfig.NewFullPrintConfig()

	result, err := eng.Evaluate(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if !result.Allowed {
		t.Errorf("Defaults should be allowed, got %+v", result.Violations)
	}
	if len(result.Violations) != 0 {
		t.Errorf("Expected no violations, got %+v", result.Violations)
	}
	if len(result.EvaluatedPolicies) != 4 {
		t.Errorf("Expected 4 evaluated policies, got %v", result.EvaluatedPolicies)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", result.Warnings)
	}
}

func TestEvaluate_BuiltinPolicies(t *testing.T) {
	eng := newTestEngine(t)

	tests := []struct {
		name          string
		settings      map[string]string
		expectAllowed bool
		expectPolicy  string
		expectKey     string
		expectCount   int
	}{
		{
			name:          "fan speeds inverted",
			settings:      map[string]string{"min_fan_speed": "80", "max_fan_speed": "50"},
			expectAllowed: false,
			expectPolicy:  "fan-speed",
			expectKey:     "min_fan_speed",
			expectCount:   1,
		},
		{
			name:          "hot extruder warns",
			settings:      map[string]string{"temperature": "210,310"},
			expectAllowed: true,
			expectPolicy:  "temperature-limits",
			expectKey:     "temperature",
			expectCount:   1,
		},
		{
			name:          "hot bed warns",
			settings:      map[string]string{"first_layer_bed_temperature": "130"},
			expectAllowed: true,
			expectPolicy:  "temperature-limits",
			expectKey:     "first_layer_bed_temperature",
			expectCount:   1,
		},
		{
			name:          "layer thicker than nozzle",
			settings:      map[string]string{"nozzle_diameter": "0.4,0.6", "layer_height": "0.5"},
			expectAllowed: false,
			expectPolicy:  "layer-height",
			expectKey:     "layer_height",
			expectCount:   1,
		},
		{
			name:          "absolute first layer thicker than nozzle",
			settings:      map[string]string{"first_layer_height": "0.7"},
			expectAllowed: false,
			expectPolicy:  "layer-height",
			expectKey:     "first_layer_height",
			expectCount:   1,
		},
		{
			name:          "percent first layer is not checked",
			settings:      map[string]string{"first_layer_height": "300%"},
			expectAllowed: true,
		},
		{
			name:          "extruder past the last one",
			settings:      map[string]string{"nozzle_diameter": "0.4,0.4", "infill_extruder": "3"},
			expectAllowed: false,
			expectPolicy:  "extruder-index",
			expectKey:     "infill_extruder",
			expectCount:   1,
		},
		{
			name:          "extruder shortcut counts every role",
			settings:      map[string]string{"extruder": "2"},
			expectAllowed: false,
			expectPolicy:  "extruder-index",
			expectCount:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := printconfig.NewFullPrintConfig()
			acc := config.NewAccessor(cfg)
			for key, value := range tt.settings {
				if err := acc.SetString(key, value); err != nil {
					t.Fatalf("Failed to set %s: %v", key, err)
				}
			}

			result, err := eng.Evaluate(context.Background(), cfg, &Context{Profile: "test.ini"})
			if err != nil {
				t.Fatalf("Evaluation failed: %v", err)
			}

			if result.Allowed != tt.expectAllowed {
				t.Errorf("Expected allowed=%v, got %v: %+v", tt.expectAllowed, result.Allowed, result.Violations)
			}
			if len(result.Violations) != tt.expectCount {
				t.Fatalf("Expected %d violations, got %+v", tt.expectCount, result.Violations)
			}
			for _, v := range result.Violations {
				if v.Policy != tt.expectPolicy {
					t.Errorf("Expected policy %s, got %s", tt.expectPolicy, v.Policy)
				}
				if tt.expectKey != "" && v.Key != tt.expectKey {
					t.Errorf("Expected key %s, got %s", tt.expectKey, v.Key)
				}
				if v.Message == "" {
					t.Error("Violation has no message")
				}
				if v.DetectedAt.IsZero() {
					t.Error("Violation has no detection time")
				}
			}
		})
	}
}

func TestEvaluate_PartialConfig(t *testing.T) {
	eng := newTestEngine(t)

	// A dynamic config carrying only some keys must not trip policies that
	// need the others.
	cfg := printconfig.NewDynamicPrintConfig()
	if err := config.NewAccessor(cfg).SetString("layer_height", "2"); err != nil {
		t.Fatalf("Failed to set layer_height: %v", err)
	}

	result, err := eng.Evaluate(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if len(result.Violations) != 0 {
		t.Errorf("Expected no violations, got %+v", result.Violations)
	}
}

func TestEvaluateInput_SeverityOverride(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	custom := Policy{
		Name:     "profile-notes",
		Severity: SeverityInfo,
		Enabled:  true,
		Rego: `package test.notes

import rego.v1

deny contains "profile has no notes" if {
	input.config.notes == ""
}

deny contains violation if {
	input.context.operation == "export"
	input.config.notes == ""
	violation := {"message": "exported profiles need notes", "key": "notes", "severity": "error"}
}
`,
	}
	if err := eng.AddPolicy(ctx, custom); err != nil {
		t.Fatalf("Failed to add policy: %v", err)
	}

	input := &Input{
		Config:  map[string]any{"notes": ""},
		Context: &Context{Operation: "validate", Timestamp: time.Now()},
	}
	result, err := eng.EvaluateInput(ctx, input)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if !result.Allowed || result.Count(SeverityInfo) != 1 {
		t.Errorf("Expected one info violation, got %+v", result.Violations)
	}

	input.Context.Operation = "export"
	result, err = eng.EvaluateInput(ctx, input)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if result.Allowed {
		t.Error("Error severity from the policy should block")
	}
	if result.Count(SeverityError) != 1 || result.Count(SeverityInfo) != 1 {
		t.Errorf("Unexpected violations %+v", result.Violations)
	}
}

func TestAddPolicy_Invalid(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.AddPolicy(context.Background(), Policy{
		Name:    "broken",
		Enabled: true,
		Rego:    "package broken\n\ndeny contains if {",
	})
	if err == nil {
		t.Fatal("Expected error for invalid Rego")
	}
	if _, err := eng.GetPolicy("broken"); err == nil {
		t.Error("Invalid policy should not be stored")
	}
}

func TestEnableDisablePolicy(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	cfg := printconfig.NewFullPrintConfig()
	acc := config.NewAccessor(cfg)
	if err := acc.SetString("min_fan_speed", "90"); err != nil {
		t.Fatal(err)
	}
	if err := acc.SetString("max_fan_speed", "40"); err != nil {
		t.Fatal(err)
	}

	if err := eng.DisablePolicy("fan-speed"); err != nil {
		t.Fatalf("Failed to disable policy: %v", err)
	}
	p, err := eng.GetPolicy("fan-speed")
	if err != nil {
		t.Fatalf("Failed to get policy: %v", err)
	}
	if p.Enabled {
		t.Error("Policy should be disabled")
	}

	result, err := eng.Evaluate(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if !result.Allowed {
		t.Error("Disabled policy should not block")
	}
	for _, name := range result.EvaluatedPolicies {
		if name == "fan-speed" {
			t.Error("Disabled policy was evaluated")
		}
	}

	if err := eng.EnablePolicy("fan-speed"); err != nil {
		t.Fatalf("Failed to enable policy: %v", err)
	}
	result, err = eng.Evaluate(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if result.Allowed {
		t.Error("Enabled policy should block")
	}

	if err := eng.EnablePolicy("missing"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestLoadAndReloadPolicies(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	dir := t.TempDir()
	rego := `# Keep speeds sane
package custom.speed

import rego.v1

deny contains violation if {
	input.config.travel_speed > 500
	violation := {"message": "travel too fast", "key": "travel_speed"}
}
`
	if err := os.WriteFile(filepath.Join(dir, "speed.rego"), []byte(rego), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := eng.LoadPolicies(ctx, []string{dir}); err != nil {
		t.Fatalf("Failed to load policies: %v", err)
	}
	p, err := eng.GetPolicy("speed")
	if err != nil {
		t.Fatalf("Custom policy not loaded: %v", err)
	}
	if p.Description != "Keep speeds sane" {
		t.Errorf("Unexpected description %q", p.Description)
	}
	if len(eng.ListPolicies()) != 5 {
		t.Errorf("Expected 5 policies, got %d", len(eng.ListPolicies()))
	}

	// Loading again replaces the custom set rather than adding to it.
	if err := eng.LoadPolicies(ctx, []string{dir}); err != nil {
		t.Fatalf("Failed to reload policies: %v", err)
	}
	if len(eng.ListPolicies()) != 5 {
		t.Errorf("Expected 5 policies after reload, got %d", len(eng.ListPolicies()))
	}

	if err := eng.ReloadPolicies(ctx); err != nil {
		t.Fatalf("Failed to reset policies: %v", err)
	}
	if _, err := eng.GetPolicy("speed"); err == nil {
		t.Error("Custom policy should be dropped by ReloadPolicies")
	}
	if len(eng.ListPolicies()) != 4 {
		t.Errorf("Expected 4 built-in policies, got %d", len(eng.ListPolicies()))
	}
}

func TestWatchPolicies(t *testing.T) {
	eng := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	write := func(limit string) {
		t.Helper()
		rego := "package custom.travel\n\nimport rego.v1\n\ndeny contains \"too fast\" if {\n\tinput.config.travel_speed > " + limit + "\n}\n"
		if err := os.WriteFile(filepath.Join(dir, "travel.rego"), []byte(rego), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("500")

	loader, err := eng.WatchPolicies(ctx, []string{dir})
	if err != nil {
		t.Fatalf("Failed to watch policies: %v", err)
	}
	defer loader.StopWatching()

	cfg := printconfig.NewFullPrintConfig()
	result, err := eng.Evaluate(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Evaluation failed: %v", err)
	}
	if len(result.Violations) != 0 {
		t.Fatalf("Expected no violations, got %+v", result.Violations)
	}

	write("100")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		result, err = eng.Evaluate(ctx, cfg, nil)
		if err != nil {
			t.Fatalf("Evaluation failed: %v", err)
		}
		if len(result.Violations) == 1 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("Policy change was not picked up: %+v", result.Violations)
}
