// Package predicate recognises the handling idioms the classifiers count:
// logging, throwing, setting a flag, returning, recovering and anything else.
//
// Every predicate is a side-effect free function of a syntax node, the
// immutable Config and, optionally, the resolution service.
package predicate

import (
	"fmt"
	"strings"
)

// Mode selects how many operations a classification keeps.
type Mode string

const (
	// ModeAll evaluates every operation independently.
	ModeAll Mode = "all"
	// ModeFirst keeps only the highest-priority operation found.
	ModeFirst Mode = "first"
)

// Config holds the logging vocabulary and argument positions.
type Config struct {
	// LogMethods is the allow-list of logging method name fragments.
	LogMethods []string
	// NotLogMethods is the deny-list, checked before the allow-list.
	NotLogMethods []string
	// LogLevelIndex is the argument carrying a log call's severity; negative
	// disables level capture.
	LogLevelIndex int
	// AssertConditionIndex is the argument carrying an assert's condition.
	AssertConditionIndex int
	Mode                 Mode
}

// DefaultConfig returns the vocabulary used when none is configured.
func DefaultConfig() Config {
	return Config{
		LogMethods: []string{
			"Log", "Logger", "Trace.Write", "Trace.TraceError", "Trace.TraceWarning",
			"Debug.Write", "Debug.Assert", "Trace.Assert", "Console.Error.Write",
		},
		NotLogMethods:        []string{"Login", "Logout", "Dialog", "Catalog", "Logic"},
		LogLevelIndex:        -1,
		AssertConditionIndex: 0,
		Mode:                 ModeAll,
	}
}

// Normalize trims entries and drops empty allow-list entries, which would
// otherwise match every name. An empty deny-list entry is kept: it ends the
// deny-list scan.
func (c Config) Normalize() Config {
	out := c
	out.LogMethods = nil
	for _, m := range c.LogMethods {
		if m = strings.TrimSpace(m); m != "" {
			out.LogMethods = append(out.LogMethods, m)
		}
	}
	out.NotLogMethods = make([]string, 0, len(c.NotLogMethods))
	for _, m := range c.NotLogMethods {
		out.NotLogMethods = append(out.NotLogMethods, strings.TrimSpace(m))
	}
	if out.Mode == "" {
		out.Mode = ModeAll
	}
	return out
}

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	if len(c.LogMethods) == 0 {
		return fmt.Errorf("at least one logging method is required")
	}
	if c.AssertConditionIndex < 0 {
		return fmt.Errorf("assert condition index must not be negative, got %d", c.AssertConditionIndex)
	}
	if c.Mode != ModeAll && c.Mode != ModeFirst {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeAll, ModeFirst, c.Mode)
	}
	return nil
}
