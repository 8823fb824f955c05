// Package report writes the per-finding feature and metadata files and the
// run summary.
//
// Feature files hold one tab separated line per finding:
//
//	ID:n  logged:1 rethrown:0 ... loc:7 numMethods:3  <key>  Name:count ... Method:1  ##spliter##:0 word:count ...
//
// Metadata files repeat the ID with the location and the text behind every
// operation, grouped by key, followed by a per-key summary table.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"catchminer/internal/aggregate"
	"catchminer/internal/finding"
	"catchminer/internal/syntax"
)

// Splitter separates the method names of a text context from its words.
const Splitter = "##spliter##"

const sep = "\t"

// featureLine renders a finding's feature vector.
func featureLine(f *finding.Finding) string {
	cols := []string{"ID:" + strconv.Itoa(f.ID)}
	for _, op := range finding.AllOperations() {
		cols = append(cols, op.String()+":"+flag(f.Has(op)))
	}
	cols = append(cols,
		"loc:"+strconv.Itoa(f.BlockLoc.EndLine-f.BlockLoc.Line+1),
		"numMethods:"+strconv.Itoa(f.Context.Methods.Len()),
	)
	if f.Kind == finding.KindGuardedCall {
		cols = append(cols, "guard:"+f.Guard.String())
	}
	cols = append(cols, clean(f.Key))
	for _, e := range methodEntries(f) {
		cols = append(cols, clean(e.Name)+":"+strconv.Itoa(e.Count))
	}
	cols = append(cols, Splitter+":0")
	for _, e := range f.Context.Words.Entries() {
		cols = append(cols, clean(e.Name)+":"+strconv.Itoa(e.Count))
	}
	return strings.Join(cols, sep)
}

// methodEntries is the method side of a finding's text features: the
// invoked names plus one occurrence of the containing method. numMethods
// counts the invoked names only.
func methodEntries(f *finding.Finding) []finding.Entry {
	entries := f.Context.Methods.Entries()
	if f.Method == "" {
		return entries
	}
	for i := range entries {
		if entries[i].Name == f.Method {
			entries[i].Count++
			return entries
		}
	}
	return append(entries, finding.Entry{Name: f.Method, Count: 1})
}

// metaHeader names the columns of metaLine.
func metaHeader(kind finding.Kind) string {
	cols := []string{"", "file", "line", "method"}
	for _, op := range finding.Priority {
		cols = append(cols, op.String())
	}
	cols = append(cols, "logLevel")
	if kind == finding.KindGuardedCall {
		cols = append(cols, "call", "guard", "guardLine")
	}
	return strings.Join(append(cols, "block"), sep)
}

// metaLine renders where a finding is and the text behind each operation.
func metaLine(f *finding.Finding) string {
	cols := []string{
		"ID:" + strconv.Itoa(f.ID),
		f.Location.File,
		strconv.Itoa(f.Location.Line),
		f.Method,
	}
	for _, op := range finding.Priority {
		cols = append(cols, clean(f.Evidence[op].Text))
	}
	cols = append(cols, clean(f.LogLevel))
	if f.Kind == finding.KindGuardedCall {
		cols = append(cols, clean(f.Call), f.Guard.String(), strconv.Itoa(f.GuardLoc.Line))
	}
	return strings.Join(append(cols, clean(f.Block)), sep)
}

// countsLine is the per-key and total line of a metadata file.
func countsLine(label string, c aggregate.Counts) string {
	return fmt.Sprintf("%s: NumFindings: %d, NumLogged: %d, NumThrown: %d, NumLoggedAndThrown: %d, NumLoggedNotThrown: %d.",
		label, c.Findings, c.Logged, c.Thrown, c.LoggedAndThrown, c.LoggedNotThrown)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// clean makes text safe for a tab separated column.
func clean(s string) string {
	return syntax.CompactSpace(s)
}
