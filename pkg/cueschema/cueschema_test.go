package cueschema

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/openfroyo/slicecfg/pkg/config"
	"github.com/openfroyo/slicecfg/pkg/printconfig"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(printconfig.Schema())
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}
	return v
}

func TestGenerate(t *testing.T) {
	src, err := Generate(printconfig.Schema())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	text := string(src)

	for _, want := range []string{
		`#Config: \{`,
		`layer_height\?:\s+`,
		`gcode_flavor\?:\s+"reprap" \| "teacup"`,
		`threads\?:\s+\(int & >=1 & <=16\)`,
		`bed_size\?:\s+\[number, number\]`,
		`nozzle_diameter\?:\s+\[\.\.\.number\]`,
		`post_process\?:\s+\[\.\.\.string\]`,
	} {
		if !regexp.MustCompile(want).MatchString(text) {
			t.Errorf("generated source does not match %q", want)
		}
	}
	for _, absent := range []string{"solid_layers?:", "\textruder?:"} {
		if strings.Contains(text, absent) {
			t.Errorf("generated source should not contain shortcut %q", absent)
		}
	}
}

func TestValidateDefaults(t *testing.T) {
	v := newTestValidator(t)
	if err := v.Validate(printconfig.NewFullPrintConfig()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestValidateData(t *testing.T) {
	v := newTestValidator(t)

	tests := []struct {
		name     string
		data     map[string]any
		wantPath string
	}{
		{"valid partial", map[string]any{"layer_height": 0.2, "threads": 4}, ""},
		{"percentage", map[string]any{"external_perimeter_speed": "50%"}, ""},
		{"literal fop", map[string]any{"first_layer_height": 0.3}, ""},
		{"threads above max", map[string]any{"threads": 32}, "threads"},
		{"unknown key", map[string]any{"no_such_option": 1}, "no_such_option"},
		{"enum outside subset", map[string]any{"solid_fill_pattern": "honeycomb"}, "solid_fill_pattern"},
		{"bad percentage", map[string]any{"external_perimeter_speed": "fast"}, "external_perimeter_speed"},
		{"wrong type", map[string]any{"cooling": "yes"}, "cooling"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateData(tt.data)
			if tt.wantPath == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, is := range verr.Issues {
				if strings.Contains(is.Path, tt.wantPath) {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue for %s in %v", tt.wantPath, verr.Issues)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	v := newTestValidator(t)

	src := `
layer_height:             0.25
external_perimeter_speed: "60%"
bed_size: [220, 220]
gcode_flavor: "sailfish"
nozzle_diameter: [0.4, 0.6]
`
	cfg := printconfig.NewDynamicPrintConfig()
	if err := v.Load([]byte(src), "profile.cue", cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	acc := config.NewAccessor(cfg)
	for key, want := range map[string]string{
		"layer_height":             "0.25",
		"external_perimeter_speed": "60%",
		"bed_size":                 "220,220",
		"gcode_flavor":             "sailfish",
		"nozzle_diameter":          "0.4,0.6",
	} {
		opt, err := acc.Option(key)
		if err != nil {
			t.Errorf("Option(%s) failed: %v", key, err)
			continue
		}
		if got := opt.Serialize(); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestLoadRejects(t *testing.T) {
	v := newTestValidator(t)

	tests := map[string]string{
		"syntax":  "layer_height: {",
		"bounds":  "threads: 0",
		"unknown": "perimeter_feed_rate: 40",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := printconfig.NewDynamicPrintConfig()
			err := v.Load([]byte(src), name+".cue", cfg)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if cfg.Len() != 0 {
				t.Errorf("rejected document should not write values, got %v", cfg.Keys())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	v := newTestValidator(t)
	path := filepath.Join(t.TempDir(), "p.cue")
	if err := os.WriteFile(path, []byte("threads: 6\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	cfg := printconfig.NewPrintConfig()
	if err := v.LoadFile(path, cfg.Store()); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Threads.Int() != 6 {
		t.Errorf("threads = %d, want 6", cfg.Threads.Int())
	}

	if err := v.LoadFile(filepath.Join(t.TempDir(), "missing.cue"), cfg.Store()); err == nil {
		t.Error("expected error for missing file")
	}
}
