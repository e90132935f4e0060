package policy

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
}

func TestLoadFromFile_Rego(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	tmpDir := t.TempDir()
	policyFile := filepath.Join(tmpDir, "retraction.rego")

	regoContent := `# Retraction must stay short
package custom.retraction

import rego.v1

deny contains "retract too long" if {
	some r in input.config.retract_length
	r > 10
}`
	writeFile(t, policyFile, regoContent)

	policies, err := loader.loadFromFile(context.Background(), policyFile)
	if err != nil {
		t.Fatalf("Failed to load policy: %v", err)
	}
	if len(policies) != 1 {
		t.Fatalf("Expected 1 policy, got %d", len(policies))
	}

	policy := policies[0]
	if policy.Name != "retraction" {
		t.Errorf("Expected name 'retraction', got '%s'", policy.Name)
	}
	if policy.Description != "Retraction must stay short" {
		t.Errorf("Unexpected description '%s'", policy.Description)
	}
	if policy.Rego != regoContent {
		t.Error("Rego content doesn't match")
	}
	if !policy.Enabled {
		t.Error("Policy should be enabled by default")
	}
	if policy.Severity != SeverityWarning {
		t.Errorf("Expected default severity warning, got %s", policy.Severity)
	}
	if policy.Metadata["source"] != policyFile {
		t.Errorf("Expected source metadata, got %v", policy.Metadata)
	}
}

func TestLoadFromFile_JSON(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	tmpDir := t.TempDir()

	tests := []struct {
		name           string
		policy         Policy
		expectName     string
		expectSeverity Severity
	}{
		{
			name: "complete policy",
			policy: Policy{
				Name:        "json-policy",
				Description: "A test policy",
				Rego:        "package test\n\nimport rego.v1\n\ndeny contains \"x\" if { false }",
				Severity:    SeverityError,
				Enabled:     true,
				Tags:        []string{"test"},
			},
			expectName:     "json-policy",
			expectSeverity: SeverityError,
		},
		{
			name: "name and severity defaulted",
			policy: Policy{
				Rego:    "package test\n\nimport rego.v1\n\ndeny contains \"x\" if { false }",
				Enabled: true,
			},
			expectName:     "name-and-severity-defaulted",
			expectSeverity: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.policy)
			if err != nil {
				t.Fatalf("Failed to marshal policy: %v", err)
			}
			file := filepath.Join(tmpDir, tt.expectName+".json")
			writeFile(t, file, string(data))

			loaded, err := loader.loadFromFile(context.Background(), file)
			if err != nil {
				t.Fatalf("Failed to load policy: %v", err)
			}
			if len(loaded) != 1 {
				t.Fatalf("Expected 1 policy, got %d", len(loaded))
			}
			if loaded[0].Name != tt.expectName {
				t.Errorf("Expected name '%s', got '%s'", tt.expectName, loaded[0].Name)
			}
			if loaded[0].Severity != tt.expectSeverity {
				t.Errorf("Expected severity '%s', got '%s'", tt.expectSeverity, loaded[0].Severity)
			}
		})
	}
}

func TestLoadFromDirectory(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "subdir")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	writeFile(t, filepath.Join(tmpDir, "policy1.rego"), "package p1\n")
	writeFile(t, filepath.Join(subDir, "policy2.rego"), "package p2\n")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Test")
	// Broken files are skipped, not fatal.
	writeFile(t, filepath.Join(tmpDir, "broken.json"), "{")

	bundle := Bundle{
		Name:    "extra",
		Version: "1.0.0",
		Policies: []Policy{
			{Name: "bundled-a", Rego: "package a\n", Enabled: true},
			{Name: "bundled-b", Rego: "package b\n", Enabled: true},
		},
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(subDir, "bundle.json"), string(data))

	loaded, err := loader.loadFromDirectory(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Failed to load directory: %v", err)
	}

	names := make(map[string]bool)
	for _, p := range loaded {
		names[p.Name] = true
	}
	for _, want := range []string{"policy1", "policy2", "bundled-a", "bundled-b"} {
		if !names[want] {
			t.Errorf("Expected policy %s in %v", want, names)
		}
	}
	if len(loaded) != 4 {
		t.Errorf("Expected 4 policies, got %d", len(loaded))
	}
}

func TestLoadFromPaths(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	tmpDir := t.TempDir()
	dir1 := filepath.Join(tmpDir, "dir1")
	if err := os.Mkdir(dir1, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	writeFile(t, filepath.Join(dir1, "policy1.rego"), "package p1\n")

	file1 := filepath.Join(tmpDir, "policy2.rego")
	writeFile(t, file1, "package p2\n")

	loaded, err := loader.LoadFromPaths(context.Background(), []string{dir1, file1})
	if err != nil {
		t.Fatalf("Failed to load paths: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("Expected 2 policies, got %d", len(loaded))
	}

	if _, err := loader.LoadFromPaths(context.Background(), []string{"/nonexistent/path"}); err == nil {
		t.Error("Expected error for non-existent path")
	}
}

func TestLoadBundle(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	tmpDir := t.TempDir()
	bundleFile := filepath.Join(tmpDir, "bundle.json")

	bundle := Bundle{
		Name:        "shop-profiles",
		Version:     "1.0.0",
		Description: "Checks for the shop printers",
		Policies: []Policy{
			{
				Name:     "policy1",
				Rego:     "package p1\n",
				Severity: SeverityError,
				Enabled:  true,
			},
			{
				Name:    "policy2",
				Rego:    "package p2\n",
				Enabled: true,
			},
		},
	}
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("Failed to marshal bundle: %v", err)
	}
	writeFile(t, bundleFile, string(data))

	loaded, err := loader.LoadBundle(context.Background(), bundleFile)
	if err != nil {
		t.Fatalf("Failed to load bundle: %v", err)
	}
	if loaded.Name != bundle.Name || loaded.Version != bundle.Version {
		t.Errorf("Unexpected bundle %s %s", loaded.Name, loaded.Version)
	}
	if len(loaded.Policies) != 2 {
		t.Fatalf("Expected 2 policies, got %d", len(loaded.Policies))
	}
	if loaded.Policies[1].Severity != SeverityWarning {
		t.Errorf("Expected defaulted severity, got %s", loaded.Policies[1].Severity)
	}

	writeFile(t, bundleFile, `{"name": "bad", "policies": [{"rego": "package x"}]}`)
	if _, err := loader.LoadBundle(context.Background(), bundleFile); err == nil {
		t.Error("Expected error for unnamed bundle policy")
	}
}

func TestExtractDescription(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name: "single line comment",
			content: `# Fan speeds must be ordered
package test`,
			expected: "Fan speeds must be ordered",
		},
		{
			name: "multi line comments",
			content: `# Fan speeds must be ordered
# for every profile
package test`,
			expected: "Fan speeds must be ordered for every profile",
		},
		{
			name:     "no comments",
			content:  "package test\n",
			expected: "",
		},
		{
			name: "comments with empty lines",
			content: `# First line
#
# Second line
package test`,
			expected: "First line Second line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loader.extractDescription(tt.content)
			if result != tt.expected {
				t.Errorf("Expected description '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestClearCache(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)

	policyFile := filepath.Join(t.TempDir(), "test.rego")
	writeFile(t, policyFile, "package test\n")

	if _, err := loader.loadFromFile(context.Background(), policyFile); err != nil {
		t.Fatalf("Failed to load policy: %v", err)
	}
	if len(loader.cache) != 1 {
		t.Errorf("Expected 1 cache entry, got %d", len(loader.cache))
	}

	loader.ClearCache()
	if len(loader.cache) != 0 {
		t.Errorf("Expected 0 cache entries after clear, got %d", len(loader.cache))
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "unsupported type", file: "test.txt", content: "not a policy"},
		{name: "invalid json", file: "test.json", content: "invalid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			writeFile(t, path, tt.content)
			if _, err := loader.loadFromFile(context.Background(), path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestRelevant(t *testing.T) {
	paths := []string{"/etc/policies", "/opt/custom/one.rego"}
	files := map[string]bool{"/opt/custom/one.rego": true}

	tests := []struct {
		name     string
		expected bool
	}{
		{"/etc/policies/a.rego", true},
		{"/etc/policies/sub/b.json", true},
		{"/etc/policies/notes.md", false},
		{"/opt/custom/one.rego", true},
		{"/opt/custom/other.rego", false},
		{"/etc/policies-old/a.rego", false},
	}

	for _, tt := range tests {
		if got := relevant(tt.name, paths, files); got != tt.expected {
			t.Errorf("relevant(%s) = %v, expected %v", tt.name, got, tt.expected)
		}
	}
}

func TestWatch(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	loader := NewLoader(logger)
	loader.SetReloadDelay(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	policyFile := filepath.Join(dir, "watched.rego")
	writeFile(t, policyFile, "package watched\n")

	var mu sync.Mutex
	var reloads [][]Policy
	err := loader.Watch(ctx, []string{policyFile}, func(policies []Policy) error {
		mu.Lock()
		defer mu.Unlock()
		reloads = append(reloads, policies)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to watch: %v", err)
	}
	defer loader.StopWatching()

	// Sibling files in the same directory do not trigger reloads.
	writeFile(t, filepath.Join(dir, "sibling.rego"), "package sibling\n")
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	if len(reloads) != 0 {
		t.Errorf("Unexpected reload for sibling file")
	}
	mu.Unlock()

	writeFile(t, policyFile, "# changed\npackage watched\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(reloads)
		var got []Policy
		if n > 0 {
			got = reloads[n-1]
		}
		mu.Unlock()
		if n > 0 {
			if len(got) != 1 || got[0].Description != "changed" {
				t.Fatalf("Unexpected reload %+v", got)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("Change was not reloaded")
}
