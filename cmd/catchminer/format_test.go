package main

import (
	"strings"
	"testing"
	"time"

	"catchminer/internal/aggregate"
	"catchminer/internal/storage"
)

func sampleRecord() *storage.RunRecord {
	return &storage.RunRecord{
		ID:         "3f2c9a4e-1111-2222-3333-444455556666",
		Root:       "/src/shop",
		StartedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		DurationMs: 1500,
		Files:      12,
		Stats:      aggregate.CodeStats{LOC: 200, LoggedLOC: 50, CatchBlocks: 7, GuardedCalls: 4},
	}
}

func TestFormatResponse(t *testing.T) {
	runs := []*storage.RunRecord{sampleRecord()}

	tests := []struct {
		name     string
		format   OutputFormat
		contains []string
		wantErr  bool
	}{
		{"human", FormatHuman, []string{"RUN", "3f2c9a4e ", "2026-03-01T10:00:00Z", "1.5s", "/src/shop"}, false},
		{"json", FormatJSON, []string{`"id": "3f2c9a4e-1111-2222-3333-444455556666"`, `"catchBlocks": 7`, `"durationMs": 1500`}, false},
		{"unsupported", OutputFormat("xml"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatResponse(runs, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestFormatRunsHumanEmpty(t *testing.T) {
	out, err := FormatResponse([]*storage.RunRecord{}, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	if out != "No runs stored." {
		t.Errorf("got %q", out)
	}
}

func TestFormatRunTablesHuman(t *testing.T) {
	resp := &RunTablesResponse{
		Run: sampleRecord(),
		CatchBlocks: []storage.BucketRecord{
			{Kind: "catch", Key: "IOException", Counts: aggregate.Counts{Findings: 5, Logged: 3, Thrown: 2, LoggedAndThrown: 1, LoggedNotThrown: 2}},
		},
	}
	out, err := FormatResponse(resp, FormatHuman)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Run 3f2c9a4e-1111-2222-3333-444455556666",
		"LOC:     200 (25% logged)",
		"Catch blocks by exception type (1 keys):",
		"Guarded calls by signature (0 keys):",
		"IOException",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(abc) = %q", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
}
