package aggregate

import (
	"testing"

	"catchminer/internal/finding"
)

func catchOf(key string, ops ...finding.Operation) *finding.Finding {
	var set finding.Operations
	for _, op := range ops {
		set = set.With(op)
	}
	return &finding.Finding{Kind: finding.KindCatch, Key: key, Ops: set}
}

func TestTableCounts(t *testing.T) {
	table := NewTable(finding.KindCatch)
	table.Add(catchOf("System.IO.IOException", finding.Logged, finding.Rethrown))
	table.Add(catchOf("System.FormatException", finding.Logged))
	table.Add(catchOf("System.IO.IOException", finding.Rethrown))
	table.Add(catchOf("System.IO.IOException", finding.Empty))

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	io := table.Bucket("System.IO.IOException")
	want := Counts{Findings: 3, Logged: 1, Thrown: 2, LoggedAndThrown: 1, LoggedNotThrown: 0}
	if io.Counts != want {
		t.Errorf("IOException counts = %+v, want %+v", io.Counts, want)
	}
	wantTotals := Counts{Findings: 4, Logged: 2, Thrown: 2, LoggedAndThrown: 1, LoggedNotThrown: 1}
	if table.Totals != wantTotals {
		t.Errorf("Totals = %+v, want %+v", table.Totals, wantTotals)
	}
}

func TestTableKeepsFirstSeenOrder(t *testing.T) {
	table := NewTable(finding.KindGuardedCall)
	for _, key := range []string{"b", "a", "b", "c", "a"} {
		table.Add(&finding.Finding{Kind: finding.KindGuardedCall, Key: key})
	}

	var keys []string
	for _, b := range table.Buckets() {
		keys = append(keys, b.Key)
	}
	if len(keys) != 3 || keys[0] != "b" || keys[1] != "a" || keys[2] != "c" {
		t.Errorf("bucket order = %v, want [b a c]", keys)
	}
	if got := len(table.Findings()); got != 5 {
		t.Errorf("Findings() = %d, want 5", got)
	}
}

func TestMerge(t *testing.T) {
	a1 := catchOf("X", finding.Logged)
	a2 := catchOf("Y")
	b1 := catchOf("X", finding.Rethrown)
	call := &finding.Finding{Kind: finding.KindGuardedCall, Key: "Ns.C.M()"}

	r := Merge([]FileResult{
		{Path: "a.cs", Stats: CodeStats{LOC: 10, Calls: 2, LoggingCalls: 1, LoggedFiles: 1}, Catches: []*finding.Finding{a1, a2}},
		{Path: "b.cs", Stats: CodeStats{LOC: 5, Calls: 1, GuardedCalls: 1}, Catches: []*finding.Finding{b1}, Calls: []*finding.Finding{call}},
	})

	if r.Files != 2 {
		t.Errorf("Files = %d, want 2", r.Files)
	}
	if r.Stats.LOC != 15 || r.Stats.Calls != 3 || r.Stats.LoggedFiles != 1 || r.Stats.GuardedCalls != 1 {
		t.Errorf("Stats = %+v", r.Stats)
	}

	// IDs follow bucket order: X holds a1 then b1, Y holds a2.
	if a1.ID != 1 || b1.ID != 2 || a2.ID != 3 {
		t.Errorf("catch IDs = %d %d %d, want 1 2 3", a1.ID, b1.ID, a2.ID)
	}
	if call.ID != 1 {
		t.Errorf("call ID = %d, want 1", call.ID)
	}
	if r.Calls.Len() != 1 || r.Catches.Len() != 2 {
		t.Errorf("tables = %d catches, %d calls", r.Catches.Len(), r.Calls.Len())
	}
}

func TestMergeEmpty(t *testing.T) {
	r := Merge(nil)
	if r.Files != 0 || r.Catches.Len() != 0 || r.Calls.Len() != 0 {
		t.Errorf("Merge(nil) = %+v", r)
	}
}
