// Package finding defines the records the classifiers produce: one Finding
// per classified catch clause or guarded call, with its handling operations,
// the evidence behind them and the call-graph text context.
package finding

import (
	"fmt"
	"strings"
)

// Sentinel grouping keys used when no type or call name can be recovered.
const (
	UndeclaredException = "UndeclaredException"
	Unresolved          = "Unresolved"
)

// Kind distinguishes the two finding variants.
type Kind uint8

const (
	KindCatch Kind = iota + 1
	KindGuardedCall
)

func (k Kind) String() string {
	switch k {
	case KindCatch:
		return "catch"
	case KindGuardedCall:
		return "call"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Location is a source position.
type Location struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	EndLine int    `json:"endLine,omitempty" yaml:"endLine,omitempty"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Evidence is the sub-node that made an operation match.
type Evidence struct {
	Text string `json:"text" yaml:"text"`
	Line int    `json:"line" yaml:"line"`
}

// Finding is one classified catch clause or guarded call. A Finding is not
// modified after the classifier returns it, except for the ID the aggregator
// assigns.
type Finding struct {
	ID   int  `json:"id" yaml:"id"`
	Kind Kind `json:"kind" yaml:"kind"`
	// Key groups findings: the exception type of a catch clause or the
	// signature of a guarded call.
	Key      string   `json:"key" yaml:"key"`
	Location Location `json:"location" yaml:"location"`
	// Method is the containing method, empty inside other members.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Block is the handling body: the catch block or the guard's body.
	Block    string   `json:"-" yaml:"-"`
	BlockLoc Location `json:"block" yaml:"block"`

	Ops      Operations             `json:"operations" yaml:"operations"`
	Evidence map[Operation]Evidence `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	LogLevel string                 `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Guarded calls only.
	Call     string    `json:"call,omitempty" yaml:"call,omitempty"`
	Guard    GuardKind `json:"guard,omitempty" yaml:"guard,omitempty"`
	GuardLoc Location  `json:"guardLocation,omitempty" yaml:"guardLocation,omitempty"`
	Checked  bool      `json:"checked,omitempty" yaml:"checked,omitempty"`

	Context TextContext `json:"context" yaml:"context"`
}

// Has reports whether the finding carries operation op.
func (f *Finding) Has(op Operation) bool {
	return f.Ops.Has(op)
}

// Summary renders the finding on one line for human output.
func (f *Finding) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s [%s]", f.Location, f.Kind, f.Key, f.Ops)
	if f.Kind == KindGuardedCall && f.Guard != GuardNone {
		fmt.Fprintf(&b, " guard=%s@%d", f.Guard, f.GuardLoc.Line)
	}
	return b.String()
}
