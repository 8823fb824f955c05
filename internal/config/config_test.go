package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"catchminer/internal/predicate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Context.MaxDepth != 3 {
		t.Errorf("Context.MaxDepth = %d, want 3", cfg.Context.MaxDepth)
	}
	if cfg.Context.MaxNames != 50 {
		t.Errorf("Context.MaxNames = %d, want 50", cfg.Context.MaxNames)
	}
	if len(cfg.Context.LibraryPrefixes) != 1 || cfg.Context.LibraryPrefixes[0] != "System" {
		t.Errorf("LibraryPrefixes = %v, want [System]", cfg.Context.LibraryPrefixes)
	}
	if cfg.Input.Mode != InputFolder {
		t.Errorf("Input.Mode = %q, want %q", cfg.Input.Mode, InputFolder)
	}
	if cfg.Input.BlobFile != "AllSource.txt" {
		t.Errorf("Input.BlobFile = %q", cfg.Input.BlobFile)
	}
	if cfg.Patterns.Mode != string(predicate.ModeAll) {
		t.Errorf("Patterns.Mode = %q, want all", cfg.Patterns.Mode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"defaults", func(*Config) {}, "", false},
		{"no log methods", func(c *Config) { c.Patterns.LogMethods = []string{" "} }, "patterns", true},
		{"bad mode", func(c *Config) { c.Patterns.Mode = "sometimes" }, "patterns", true},
		{"negative depth", func(c *Config) { c.Context.MaxDepth = -1 }, "context.max_depth", true},
		{"negative cap", func(c *Config) { c.Context.MaxNames = -1 }, "context.max_names", true},
		{"unbounded cap", func(c *Config) { c.Context.MaxNames = 0 }, "", false},
		{"unknown input", func(c *Config) { c.Input.Mode = "zip" }, "input.mode", true},
		{"blob without file", func(c *Config) { c.Input.Mode = InputBlob; c.Input.BlobFile = "" }, "input.blob_file", true},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output.format", true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("error %T is not a *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Context.MaxDepth != 3 || cfg.Output.Format != FormatHuman {
		t.Errorf("missing file should give defaults, got %+v", cfg)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	dir := t.TempDir()
	content := `
workers = 4

[patterns]
log_methods = ["Trace", "Audit"]
mode = "first"

[context]
max_depth = 2
`
	if err := os.WriteFile(filepath.Join(dir, ".catchminer.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if len(cfg.Patterns.LogMethods) != 2 || cfg.Patterns.LogMethods[1] != "Audit" {
		t.Errorf("LogMethods = %v", cfg.Patterns.LogMethods)
	}
	if cfg.Patterns.Mode != "first" {
		t.Errorf("Mode = %q, want first", cfg.Patterns.Mode)
	}
	if cfg.Context.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d, want 2", cfg.Context.MaxDepth)
	}
	if cfg.Context.MaxNames != 50 {
		t.Errorf("unset keys keep defaults, MaxNames = %d", cfg.Context.MaxNames)
	}
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	if _, err := LoadConfig("", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("an explicit config path that does not exist is an error")
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("CATCHMINER_CONTEXT_MAX_NAMES", "7")

	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Context.MaxNames != 7 {
		t.Errorf("MaxNames = %d, want 7 from the environment", cfg.Context.MaxNames)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Output.Prefix = "run1_"
	cfg.Context.LibraryPrefixes = []string{"System", "Microsoft"}

	path, err := cfg.Save(dir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != ".catchminer.toml" {
		t.Errorf("Save wrote %s", path)
	}

	loaded, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Output.Prefix != "run1_" {
		t.Errorf("Prefix = %q", loaded.Output.Prefix)
	}
	if len(loaded.Context.LibraryPrefixes) != 2 {
		t.Errorf("LibraryPrefixes = %v", loaded.Context.LibraryPrefixes)
	}
}

func TestPredicatesAndContextOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Patterns.LogMethods = []string{"Log", ""}
	cfg.Patterns.Mode = "first"

	p := cfg.Predicates()
	if len(p.LogMethods) != 1 || p.Mode != predicate.ModeFirst {
		t.Errorf("Predicates() = %+v", p)
	}
	if o := cfg.ContextOptions(); o.MaxDepth != 3 || o.MaxNames != 50 {
		t.Errorf("ContextOptions() = %+v", o)
	}
}

func TestLoadLegacy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Config.txt")
	content := `% logging methods
Log, Trace.Write ,Debug.Assert
Login,Dialog
1  % level argument
N

0
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadLegacy(path)
	if err != nil {
		t.Fatalf("LoadLegacy() error = %v", err)
	}
	want := []string{"Log", "Trace.Write", "Debug.Assert"}
	if len(cfg.Patterns.LogMethods) != len(want) {
		t.Fatalf("LogMethods = %v, want %v", cfg.Patterns.LogMethods, want)
	}
	for i := range want {
		if cfg.Patterns.LogMethods[i] != want[i] {
			t.Errorf("LogMethods[%d] = %q, want %q", i, cfg.Patterns.LogMethods[i], want[i])
		}
	}
	if len(cfg.Patterns.NotLogMethods) != 2 {
		t.Errorf("NotLogMethods = %v", cfg.Patterns.NotLogMethods)
	}
	if cfg.Patterns.LogLevelIndex != 1 {
		t.Errorf("LogLevelIndex = %d, want 1", cfg.Patterns.LogLevelIndex)
	}
	if cfg.Patterns.Mode != string(predicate.ModeFirst) {
		t.Errorf("Mode = %q, want first", cfg.Patterns.Mode)
	}
	if cfg.Patterns.AssertConditionIndex != 0 {
		t.Errorf("AssertConditionIndex = %d, want 0", cfg.Patterns.AssertConditionIndex)
	}
}

func TestParseLegacyErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		field string
	}{
		{"bad level", []string{"Log", "Login", "x"}, "patterns.log_level_index"},
		{"bad mode", []string{"Log", "Login", "0", "Y"}, "patterns.mode"},
		{"bad assert", []string{"Log", "Login", "0", "O", "first"}, "patterns.assert_condition_index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLegacy(tt.lines)
			var cerr *ConfigError
			if !errors.As(err, &cerr) || cerr.Field != tt.field {
				t.Errorf("parseLegacy() error = %v, want field %s", err, tt.field)
			}
		})
	}
}
