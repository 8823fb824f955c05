package testutil

import (
	"bytes"
	"encoding/json"
	"strings"

	"catchminer/internal/output"
)

// SnapshotExcludeFields lists the run metadata that differs between
// otherwise identical runs.
var SnapshotExcludeFields = []string{
	"run.id",
	"run.startedAt",
	"run.durationMs",
}

// NormalizeForSnapshot removes run metadata and re-encodes deterministically.
func NormalizeForSnapshot(data []byte) ([]byte, error) {
	var parsed map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	for _, field := range SnapshotExcludeFields {
		removeNestedField(parsed, field)
	}
	return output.DeterministicEncode(parsed)
}

// CompareSnapshots reports whether two encoded summaries are identical apart
// from run metadata.
func CompareSnapshots(a, b []byte) (bool, string) {
	na, err := NormalizeForSnapshot(a)
	if err != nil {
		return false, "failed to normalize snapshot A: " + err.Error()
	}
	nb, err := NormalizeForSnapshot(b)
	if err != nil {
		return false, "failed to normalize snapshot B: " + err.Error()
	}
	if !bytes.Equal(na, nb) {
		return false, "snapshots differ"
	}
	return true, ""
}

func removeNestedField(data map[string]interface{}, path string) {
	parts := strings.Split(path, ".")
	current := data
	for _, p := range parts[:len(parts)-1] {
		next, ok := current[p].(map[string]interface{})
		if !ok {
			return
		}
		current = next
	}
	delete(current, parts[len(parts)-1])
}
