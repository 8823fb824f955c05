//go:build cgo

package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"catchminer/internal/config"
	"catchminer/internal/slogutil"
	"catchminer/internal/testutil"
)

func analyze(t *testing.T, cfg *config.Config, root string) *Run {
	t.Helper()
	a, err := New(cfg, slogutil.NewDiscardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	run, err := a.Analyze(context.Background(), root)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return run
}

func TestAnalyzeFolder(t *testing.T) {
	root := testutil.FixtureDir(t, "store")
	run := analyze(t, config.DefaultConfig(), root)
	res := run.Result

	// src/obj is excluded by default.
	if res.Files != 2 || run.Info.Failed != 0 {
		t.Fatalf("Files = %d, Failed = %d, want 2, 0", res.Files, run.Info.Failed)
	}
	if got := res.Catches.Totals.Findings; got != 3 {
		t.Errorf("catch findings = %d, want 3", got)
	}
	if res.Catches.Totals.LoggedAndThrown != 1 {
		t.Errorf("logged and thrown = %d, want 1", res.Catches.Totals.LoggedAndThrown)
	}
	if got := res.Calls.Totals.Findings; got != 2 {
		t.Errorf("guarded call findings = %d, want 2", got)
	}
	if res.Stats.GuardedCalls != res.Calls.Totals.Findings {
		t.Errorf("stats guarded calls = %d, table = %d", res.Stats.GuardedCalls, res.Calls.Totals.Findings)
	}
	if res.Stats.CatchBlocks != 3 || res.Stats.Classes != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}

	if run.Info.ID == "" || run.Info.Methods == 0 {
		t.Errorf("run info = %+v", run.Info)
	}
	if run.Summary.Run.Files != 2 {
		t.Errorf("summary files = %d", run.Summary.Run.Files)
	}

	// IDs are dense within each table.
	for i, f := range res.Catches.Findings() {
		if f.ID != i+1 {
			t.Errorf("catch %d has ID %d", i, f.ID)
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	root := testutil.FixtureDir(t, "store")
	cfg := config.DefaultConfig()
	cfg.Workers = 4

	first := analyze(t, cfg, root)
	second := analyze(t, cfg, root)

	a, b := first.Result.Calls.Findings(), second.Result.Calls.Findings()
	if len(a) != len(b) {
		t.Fatalf("finding counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Key != b[i].Key || a[i].Location != b[i].Location || a[i].Context.Methods.String() != b[i].Context.Methods.String() {
			t.Errorf("finding %d differs between runs", i)
		}
	}
}

func TestAnalyzeBlob(t *testing.T) {
	root := testutil.FixtureDir(t, "store")
	out := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Input.SaveBlob = true
	cfg.Output.Dir = out
	run := analyze(t, cfg, root)

	if run.BlobPath != filepath.Join(out, "AllSource.txt") {
		t.Fatalf("BlobPath = %q", run.BlobPath)
	}
	if _, err := os.Stat(run.BlobPath); err != nil {
		t.Fatalf("blob not written: %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Input.Mode = config.InputBlob
	cfg.Input.BlobFile = run.BlobPath
	blobRun := analyze(t, cfg, out)
	if blobRun.Result.Files != 1 {
		t.Errorf("blob files = %d, want 1", blobRun.Result.Files)
	}
	if blobRun.Result.Catches.Totals.Findings == 0 {
		t.Error("blob run found no catch blocks")
	}
}

func TestAnalyzeMissingSCIPIndexContinues(t *testing.T) {
	root := testutil.FixtureDir(t, "store")
	cfg := config.DefaultConfig()
	cfg.Scip.Index = "missing/index.scip"

	run := analyze(t, cfg, root)
	if run.Result.Catches.Totals.Findings != 3 {
		t.Errorf("catch findings = %d, want 3", run.Result.Catches.Totals.Findings)
	}
}
