package report

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"catchminer/internal/aggregate"
	"catchminer/internal/output"
)

// Summary formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// RunInfo identifies one analysis run.
type RunInfo struct {
	ID         string    `json:"id" yaml:"id"`
	Root       string    `json:"root" yaml:"root"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	DurationMs int64     `json:"durationMs" yaml:"durationMs"`
	Files      int       `json:"files" yaml:"files"`
	Failed     int       `json:"failed" yaml:"failed"`
	Methods    int       `json:"indexedMethods" yaml:"indexedMethods"`
}

// Summary is the machine-readable outcome of a run.
type Summary struct {
	Run          RunInfo             `json:"run" yaml:"run"`
	Stats        aggregate.CodeStats `json:"stats" yaml:"stats"`
	CatchBlocks  TableSummary        `json:"catchBlocks" yaml:"catchBlocks"`
	GuardedCalls TableSummary        `json:"guardedCalls" yaml:"guardedCalls"`
}

// TableSummary is one summary table: a row per key and the grand total.
type TableSummary struct {
	Keys   int              `json:"keys" yaml:"keys"`
	Totals aggregate.Counts `json:"totals" yaml:"totals"`
	Rows   []Row            `json:"rows" yaml:"rows"`
}

// Row is the counts of one key.
type Row struct {
	Key              string `json:"key" yaml:"key"`
	aggregate.Counts `yaml:",inline"`
}

// NewSummary builds the summary of a merged result.
func NewSummary(run RunInfo, res *aggregate.Result) *Summary {
	run.Files = res.Files
	return &Summary{
		Run:          run,
		Stats:        res.Stats,
		CatchBlocks:  tableSummary(res.Catches),
		GuardedCalls: tableSummary(res.Calls),
	}
}

func tableSummary(t *aggregate.Table) TableSummary {
	s := TableSummary{Keys: t.Len(), Totals: t.Totals, Rows: make([]Row, 0, t.Len())}
	for _, b := range t.Buckets() {
		s.Rows = append(s.Rows, Row{Key: b.Key, Counts: b.Counts})
	}
	return s
}

// Encode renders the summary in format.
func (s *Summary) Encode(format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return output.DeterministicEncodeIndented(s, "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatHuman, "":
		return s.human(), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// FileName is the summary's report file name for format.
func FileName(format string) string {
	switch format {
	case FormatJSON:
		return "Summary.json"
	case FormatYAML:
		return "Summary.yaml"
	}
	return "Summary.txt"
}

func (s *Summary) human() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "catchminer run %s\n", s.Run.ID)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Root:     %s\n", s.Run.Root)
	fmt.Fprintf(&b, "Files:    %d (%d failed)\n", s.Run.Files, s.Run.Failed)
	fmt.Fprintf(&b, "Methods:  %d indexed\n", s.Run.Methods)
	fmt.Fprintf(&b, "Duration: %s\n\n", time.Duration(s.Run.DurationMs)*time.Millisecond)

	st := s.Stats
	b.WriteString("Code statistics:\n")
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  LOC\t%d\tlogged\t%d (%s%%)\n", st.LOC, st.LoggedLOC, output.FormatFloat(output.Percent(st.LoggedLOC, st.LOC)))
	fmt.Fprintf(w, "  Calls\t%d\tlogging\t%d\n", st.Calls, st.LoggingCalls)
	fmt.Fprintf(w, "  Classes\t%d\tlogged\t%d\n", st.Classes, st.LoggedClasses)
	fmt.Fprintf(w, "  Methods\t%d\tlogged\t%d\n", st.Methods, st.LoggedMethods)
	fmt.Fprintf(w, "  Files\t%d\tlogged\t%d\n", s.Run.Files, st.LoggedFiles)
	fmt.Fprintf(w, "  Catch blocks\t%d\tlogged\t%d\n", st.CatchBlocks, st.LoggedCatchBlocks)
	fmt.Fprintf(w, "  Guarded calls\t%d\t\t\n", st.GuardedCalls)
	_ = w.Flush()

	writeTable(&b, "Catch blocks by exception type", "EXCEPTION TYPE", s.CatchBlocks)
	writeTable(&b, "Guarded calls by signature", "CALL", s.GuardedCalls)
	return b.Bytes()
}

func writeTable(b *bytes.Buffer, title, keyHeader string, t TableSummary) {
	fmt.Fprintf(b, "\n%s (%d keys):\n", title, t.Keys)
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  %s\tCOUNT\tLOGGED\tTHROWN\tLOGGED+THROWN\tLOGGED-NOT-THROWN\n", keyHeader)
	for _, r := range t.Rows {
		fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%d\t%d\n", r.Key, r.Findings, r.Logged, r.Thrown, r.LoggedAndThrown, r.LoggedNotThrown)
	}
	c := t.Totals
	fmt.Fprintf(w, "  TOTAL\t%d\t%d\t%d\t%d\t%d\n", c.Findings, c.Logged, c.Thrown, c.LoggedAndThrown, c.LoggedNotThrown)
	_ = w.Flush()
}
