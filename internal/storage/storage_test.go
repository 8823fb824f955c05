package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"catchminer/internal/aggregate"
	"catchminer/internal/finding"
	"catchminer/internal/report"
	"catchminer/internal/slogutil"
)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out", "runs.db")

	db, err := Open(path, slogutil.NewDiscardLogger())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})
	return db, path
}

func sampleRun() (report.RunInfo, *aggregate.Result) {
	ctx := finding.NewTextContext()
	ctx.Methods.Add("Read")
	ctx.Methods.Add("Read")
	ctx.Words.Add("name")

	loggedThrown := finding.Operations(0).With(finding.Logged).With(finding.Rethrown)
	files := []aggregate.FileResult{{
		Path:  "src/Store.cs",
		Stats: aggregate.CodeStats{LOC: 40, Calls: 6, Classes: 1, Methods: 3, CatchBlocks: 2, GuardedCalls: 1},
		Catches: []*finding.Finding{
			{Kind: finding.KindCatch, Key: "IOException", Location: finding.Location{File: "src/Store.cs", Line: 12}, Method: "Load", Ops: loggedThrown, Context: ctx},
			{Kind: finding.KindCatch, Key: finding.UndeclaredException, Location: finding.Location{File: "src/Store.cs", Line: 20}, Ops: finding.Operations(0).With(finding.Empty), Context: finding.NewTextContext()},
		},
		Calls: []*finding.Finding{
			{Kind: finding.KindGuardedCall, Key: "Shop.Store.Exists", Location: finding.Location{File: "src/Store.cs", Line: 30}, Method: "Save",
				Ops: finding.Operations(0).With(finding.Logged), LogLevel: "LogLevel.Warn", Call: "Exists(name)",
				Guard: finding.GuardIf, GuardLoc: finding.Location{File: "src/Store.cs", Line: 30}, Checked: true, Context: finding.NewTextContext()},
		},
	}}
	info := report.RunInfo{
		ID:         "run-1",
		Root:       "/src/shop",
		StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		DurationMs: 1500,
		Methods:    3,
	}
	return info, aggregate.Merge(files)
}

func TestDatabaseInitialization(t *testing.T) {
	db, path := setupTestDB(t)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Database file was not created at %s", path)
	}

	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", currentSchemaVersion, version)
	}
}

func TestReopenRunsMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	logger := slogutil.NewDiscardLogger()

	db, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	info, res := sampleRun()
	if err := NewRunRepository(db).Save(info, res); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	_ = db.Close()

	db, err = Open(path, logger)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	rec, err := NewRunRepository(db).Get("run-1")
	if err != nil || rec == nil {
		t.Fatalf("Get() after reopen = %v, %v", rec, err)
	}
}

func TestRunRepository(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewRunRepository(db)

	info, res := sampleRun()
	if err := repo.Save(info, res); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("get", func(t *testing.T) {
		rec, err := repo.Get("run-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if rec.Root != "/src/shop" || rec.Files != 1 || rec.DurationMs != 1500 || rec.Methods != 3 {
			t.Errorf("run = %+v", rec)
		}
		if !rec.StartedAt.Equal(info.StartedAt) {
			t.Errorf("StartedAt = %v, want %v", rec.StartedAt, info.StartedAt)
		}
		if rec.Stats.LOC != 40 || rec.Stats.CatchBlocks != 2 {
			t.Errorf("Stats = %+v", rec.Stats)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		rec, err := repo.Get("nope")
		if err != nil || rec != nil {
			t.Errorf("Get(nope) = %v, %v; want nil, nil", rec, err)
		}
	})

	t.Run("buckets", func(t *testing.T) {
		buckets, err := repo.Buckets("run-1", finding.KindCatch)
		if err != nil {
			t.Fatalf("Buckets() error = %v", err)
		}
		if len(buckets) != 2 {
			t.Fatalf("got %d buckets, want 2", len(buckets))
		}
		if buckets[0].Key != "IOException" || buckets[0].LoggedAndThrown != 1 || buckets[0].Position != 0 {
			t.Errorf("first bucket = %+v", buckets[0])
		}
		if buckets[1].Key != finding.UndeclaredException || buckets[1].Findings != 1 || buckets[1].Logged != 0 {
			t.Errorf("second bucket = %+v", buckets[1])
		}
	})

	t.Run("findings", func(t *testing.T) {
		catches, err := repo.Findings("run-1", finding.KindCatch)
		if err != nil {
			t.Fatalf("Findings() error = %v", err)
		}
		if len(catches) != 2 {
			t.Fatalf("got %d catch findings, want 2", len(catches))
		}
		if catches[0].ID != 1 || catches[0].Operations != "logged,rethrown" || catches[0].Method != "Load" {
			t.Errorf("first catch = %+v", catches[0])
		}
		if catches[1].Guard != "" || catches[1].Method != "" {
			t.Errorf("second catch = %+v", catches[1])
		}

		calls, err := repo.Findings("run-1", finding.KindGuardedCall)
		if err != nil {
			t.Fatalf("Findings() error = %v", err)
		}
		if len(calls) != 1 {
			t.Fatalf("got %d call findings, want 1", len(calls))
		}
		c := calls[0]
		if c.Guard != "if" || c.GuardLine != 30 || c.LogLevel != "LogLevel.Warn" || c.Call != "Exists(name)" {
			t.Errorf("call = %+v", c)
		}
	})

	t.Run("list", func(t *testing.T) {
		runs, err := repo.List(10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(runs) != 1 || runs[0].ID != "run-1" {
			t.Errorf("List() = %+v", runs)
		}
	})

	t.Run("duplicate run", func(t *testing.T) {
		if err := repo.Save(info, res); err == nil {
			t.Error("saving the same run twice should fail")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.Delete("run-1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		findings, err := repo.Findings("run-1", finding.KindCatch)
		if err != nil {
			t.Fatalf("Findings() error = %v", err)
		}
		if len(findings) != 0 {
			t.Errorf("findings survived delete: %d", len(findings))
		}
	})
}
