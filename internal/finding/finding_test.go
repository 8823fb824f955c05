package finding

import (
	"encoding/json"
	"testing"
)

func TestOperations(t *testing.T) {
	var ops Operations
	if ops.First() != Empty {
		t.Errorf("First() of empty set = %s, want empty", ops.First())
	}
	ops = ops.With(Returned).With(Logged)
	if !ops.Has(Logged) || !ops.Has(Returned) || ops.Has(Rethrown) {
		t.Errorf("membership wrong: %s", ops)
	}
	if ops.First() != Logged {
		t.Errorf("First() = %s, want logged", ops.First())
	}
	if got := ops.String(); got != "logged,returned" {
		t.Errorf("String() = %q, want logged,returned", got)
	}
	b, err := json.Marshal(ops)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `["logged","returned"]` {
		t.Errorf("json = %s", b)
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range AllOperations() {
		got, ok := ParseOperation(op.String())
		if !ok || got != op {
			t.Errorf("ParseOperation(%q) = %v, %v", op, got, ok)
		}
	}
	if _, ok := ParseOperation("ignored"); ok {
		t.Error("unknown names must not parse")
	}
}

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Add("b")
	c.Add("a")
	if n := c.Add("b"); n != 2 {
		t.Errorf("Add returned %d, want 2", n)
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	keys := c.Keys()
	if keys[0] != "b" || keys[1] != "a" {
		t.Errorf("Keys() = %v, want first-insertion order", keys)
	}
	if got := c.Tokens(); got != "b b a" {
		t.Errorf("Tokens() = %q", got)
	}
	if got := c.String(); got != "b:2 a:1" {
		t.Errorf("String() = %q", got)
	}

	var nilCounter *Counter
	if nilCounter.Count("x") != 0 || nilCounter.Len() != 0 {
		t.Error("nil counter should be empty")
	}
}

func TestEmptyCounterJSON(t *testing.T) {
	b, err := json.Marshal(NewCounter())
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]" {
		t.Errorf("json = %s, want []", b)
	}
}
