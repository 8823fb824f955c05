package testutil

import "testing"

func TestCompareSnapshots(t *testing.T) {
	a := []byte(`{"run":{"id":"a","startedAt":"2026-01-01T00:00:00Z","durationMs":12,"files":3},"totals":{"catch":4}}`)
	b := []byte(`{"totals":{"catch":4},"run":{"files":3,"id":"b","startedAt":"2026-02-01T00:00:00Z","durationMs":40}}`)
	c := []byte(`{"run":{"id":"a","files":3},"totals":{"catch":5}}`)

	if ok, msg := CompareSnapshots(a, b); !ok {
		t.Errorf("runs differing only in metadata should match: %s", msg)
	}
	if ok, _ := CompareSnapshots(a, c); ok {
		t.Error("different totals should not match")
	}
	if ok, _ := CompareSnapshots(a, []byte("not json")); ok {
		t.Error("invalid JSON should not match")
	}
}

func TestNormalizeForSnapshot(t *testing.T) {
	got, err := NormalizeForSnapshot([]byte(`{"run":{"id":"x","files":2},"b":1}`))
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"b":1,"run":{"files":2}}`; string(got) != want {
		t.Errorf("NormalizeForSnapshot() = %s, want %s", got, want)
	}
}
