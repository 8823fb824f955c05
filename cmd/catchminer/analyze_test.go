package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"catchminer/internal/config"
	cmerrors "catchminer/internal/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{cmerrors.New(cmerrors.ConfigInvalid, "bad"), 2},
		{cmerrors.New(cmerrors.InputNotFound, "missing"), 2},
		{fmt.Errorf("wrapped: %w", cmerrors.New(cmerrors.InputNotFound, "missing")), 2},
		{cmerrors.New(cmerrors.OutputFailed, "disk full"), 1},
		{fmt.Errorf("plain"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestApplyAnalyzeFlags(t *testing.T) {
	legacy := filepath.Join(t.TempDir(), "Config.txt")
	content := "% vocabulary\nLogHelper,Audit\nLogin\n1\nN\n0\n"
	if err := os.WriteFile(legacy, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f := analyzeCmd.Flags()
	for name, value := range map[string]string{
		"blob":     "All.txt",
		"out":      "reports",
		"compress": "true",
		"workers":  "2",
	} {
		if err := f.Set(name, value); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}
	analyzeLegacyConfig = legacy
	defer func() { analyzeLegacyConfig = "" }()

	cfg := config.DefaultConfig()
	if err := applyAnalyzeFlags(analyzeCmd, cfg); err != nil {
		t.Fatalf("applyAnalyzeFlags() error = %v", err)
	}

	if cfg.Input.Mode != config.InputBlob || cfg.Input.BlobFile != "All.txt" {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Output.Dir != "reports" || !cfg.Output.Compress {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	if len(cfg.Patterns.LogMethods) != 2 || cfg.Patterns.LogMethods[0] != "LogHelper" {
		t.Errorf("log methods = %v", cfg.Patterns.LogMethods)
	}
	if cfg.Patterns.Mode != "first" || cfg.Patterns.LogLevelIndex != 1 {
		t.Errorf("patterns = %+v", cfg.Patterns)
	}
	// Flags not set keep their configured values.
	if cfg.Output.Format != config.FormatHuman {
		t.Errorf("format = %q", cfg.Output.Format)
	}
}

func TestApplyAnalyzeFlagsBadLegacy(t *testing.T) {
	analyzeLegacyConfig = filepath.Join(t.TempDir(), "missing.txt")
	defer func() { analyzeLegacyConfig = "" }()

	err := applyAnalyzeFlags(analyzeCmd, config.DefaultConfig())
	if !cmerrors.Is(err, cmerrors.ConfigInvalid) {
		t.Errorf("error = %v, want CONFIG_INVALID", err)
	}
}
