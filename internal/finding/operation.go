package finding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation is one handling behaviour of a catch block or guard body.
type Operation uint8

const (
	Logged Operation = iota
	Rethrown
	FlagSet
	Returned
	Recovered
	OtherOperation
	Empty

	numOperations
)

// Priority is the order in which operations win when only one is kept.
// Empty is implied when none of them holds.
var Priority = []Operation{Logged, Rethrown, FlagSet, Returned, Recovered, OtherOperation}

var operationNames = [numOperations]string{
	Logged:         "logged",
	Rethrown:       "rethrown",
	FlagSet:        "flagSet",
	Returned:       "returned",
	Recovered:      "recovered",
	OtherOperation: "other",
	Empty:          "empty",
}

func (o Operation) String() string {
	if o < numOperations {
		return operationNames[o]
	}
	return fmt.Sprintf("operation(%d)", uint8(o))
}

// MarshalText implements encoding.TextMarshaler so operations can key maps.
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(b []byte) error {
	op, ok := ParseOperation(string(b))
	if !ok {
		return fmt.Errorf("unknown operation %q", b)
	}
	*o = op
	return nil
}

// ParseOperation returns the operation with the given name.
func ParseOperation(s string) (Operation, bool) {
	for i, name := range operationNames {
		if name == s {
			return Operation(i), true
		}
	}
	return 0, false
}

// AllOperations lists every operation in report column order.
func AllOperations() []Operation {
	ops := make([]Operation, 0, numOperations)
	for o := Operation(0); o < numOperations; o++ {
		ops = append(ops, o)
	}
	return ops
}

// Operations is a set of operations.
type Operations uint16

// Has reports whether op is in the set.
func (s Operations) Has(op Operation) bool {
	return s&(1<<op) != 0
}

// With returns the set with op added.
func (s Operations) With(op Operation) Operations {
	return s | 1<<op
}

// List returns the members in report column order.
func (s Operations) List() []Operation {
	var out []Operation
	for _, op := range AllOperations() {
		if s.Has(op) {
			out = append(out, op)
		}
	}
	return out
}

// First returns the highest-priority member, or Empty.
func (s Operations) First() Operation {
	for _, op := range Priority {
		if s.Has(op) {
			return op
		}
	}
	return Empty
}

func (s Operations) String() string {
	return strings.Join(s.names(), ",")
}

// MarshalJSON encodes the set as a list of names.
func (s Operations) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.names())
}

// MarshalYAML encodes the set as a list of names.
func (s Operations) MarshalYAML() (interface{}, error) {
	return s.names(), nil
}

func (s Operations) names() []string {
	names := []string{}
	for _, op := range s.List() {
		names = append(names, op.String())
	}
	return names
}
