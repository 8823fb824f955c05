package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"catchminer/internal/output"
	"catchminer/internal/storage"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := output.DeterministicEncodeIndented(resp, "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case []*storage.RunRecord:
		return formatRunsHuman(v), nil
	case *RunTablesResponse:
		return formatRunTablesHuman(v), nil
	default:
		return formatJSON(resp)
	}
}

func formatRunsHuman(runs []*storage.RunRecord) string {
	if len(runs) == 0 {
		return "No runs stored."
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tFILES\tCATCH BLOCKS\tGUARDED CALLS\tDURATION\tROOT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			shortID(r.ID),
			r.StartedAt.Format(time.RFC3339),
			r.Files,
			r.Stats.CatchBlocks,
			r.Stats.GuardedCalls,
			time.Duration(r.DurationMs)*time.Millisecond,
			r.Root,
		)
	}
	_ = w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func formatRunTablesHuman(resp *RunTablesResponse) string {
	var b strings.Builder
	r := resp.Run
	b.WriteString(fmt.Sprintf("Run %s\n", r.ID))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Root:    %s\n", r.Root))
	b.WriteString(fmt.Sprintf("Started: %s\n", r.StartedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Files:   %d (%d failed)\n", r.Files, r.Failed))
	b.WriteString(fmt.Sprintf("LOC:     %d (%s%% logged)\n", r.Stats.LOC, output.FormatFloat(output.Percent(r.Stats.LoggedLOC, r.Stats.LOC))))

	writeBuckets(&b, "Catch blocks by exception type", resp.CatchBlocks)
	writeBuckets(&b, "Guarded calls by signature", resp.GuardedCalls)
	return strings.TrimRight(b.String(), "\n")
}

func writeBuckets(b *strings.Builder, title string, buckets []storage.BucketRecord) {
	b.WriteString(fmt.Sprintf("\n%s (%d keys):\n", title, len(buckets)))
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  KEY\tCOUNT\tLOGGED\tTHROWN\tLOGGED+THROWN\tLOGGED-NOT-THROWN")
	for _, k := range buckets {
		fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%d\t%d\n", k.Key, k.Findings, k.Logged, k.Thrown, k.LoggedAndThrown, k.LoggedNotThrown)
	}
	_ = w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
