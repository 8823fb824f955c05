package slogutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingFile_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	rf, err := OpenRotatingFile(path, 50, 2)
	if err != nil {
		t.Fatalf("OpenRotatingFile failed: %v", err)
	}

	line := []byte(strings.Repeat("a", 29) + "\n")
	for i := 0; i < 7; i++ {
		if _, err := rf.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	if err := rf.Close(); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{path, path + ".1", path + ".2"} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s should exist: %v", filepath.Base(p), err)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Error("only two backups should be kept")
	}
}

func TestRotatingFile_NoRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	rf, err := OpenRotatingFile(path, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		_, _ = rf.Write([]byte("hello world\n"))
	}
	rf.Close()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Error("a zero max size should never rotate")
	}
	if _, err := rf.Write([]byte("late")); err == nil {
		t.Error("writing after Close should fail")
	}
}

func TestSetup(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "catchminer.log")

	logger, closer, err := Setup(Options{
		Level:      slog.LevelWarn,
		Console:    &console,
		File:       path,
		FileLevel:  slog.LevelDebug,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	logger.Debug("index built", "methods", 7)
	logger.Warn("file skipped")
	closer.Close()

	if strings.Contains(console.String(), "index built") {
		t.Error("console should filter debug records")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "index built | methods=7") || !strings.Contains(string(data), "file skipped") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := Setup(Options{Level: slog.LevelInfo, Console: &console})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("config loaded")
	if !strings.Contains(console.String(), "[info] config loaded") {
		t.Errorf("console = %q", console.String())
	}
}
