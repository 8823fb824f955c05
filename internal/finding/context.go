package finding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Counter is a multiset of strings that remembers first-insertion order.
type Counter struct {
	keys   []string
	counts map[string]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add increments name and returns its new count.
func (c *Counter) Add(name string) int {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[name]; !ok {
		c.keys = append(c.keys, name)
	}
	c.counts[name]++
	return c.counts[name]
}

// Count returns how often name was added.
func (c *Counter) Count(name string) int {
	if c == nil {
		return 0
	}
	return c.counts[name]
}

// Len returns the number of distinct names.
func (c *Counter) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns the distinct names in first-insertion order.
func (c *Counter) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Entry is one name of a counter with its count.
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Entries returns the counter's contents in first-insertion order.
func (c *Counter) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry{Name: k, Count: c.counts[k]})
	}
	return out
}

// Tokens expands the counter into one token per occurrence, space separated.
func (c *Counter) Tokens() string {
	if c == nil {
		return ""
	}
	var parts []string
	for _, k := range c.keys {
		for i := 0; i < c.counts[k]; i++ {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ")
}

func (c *Counter) String() string {
	parts := make([]string, 0, c.Len())
	for _, e := range c.Entries() {
		parts = append(parts, fmt.Sprintf("%s:%d", e.Name, e.Count))
	}
	return strings.Join(parts, " ")
}

// MarshalJSON encodes the counter as an ordered list of entries.
func (c *Counter) MarshalJSON() ([]byte, error) {
	entries := c.Entries()
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// MarshalYAML encodes the counter as an ordered list of entries.
func (c *Counter) MarshalYAML() (interface{}, error) {
	return c.Entries(), nil
}

// TextContext holds the call-graph text features of a finding.
type TextContext struct {
	// Methods counts the names of invoked methods.
	Methods *Counter `json:"methods" yaml:"methods"`
	// Words counts variable references and comment words.
	Words *Counter `json:"words" yaml:"words"`
}

// NewTextContext creates an empty context.
func NewTextContext() TextContext {
	return TextContext{Methods: NewCounter(), Words: NewCounter()}
}
