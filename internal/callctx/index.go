// Package callctx gathers the call-graph text context of a finding: the
// methods reachable from a code region within a bounded breadth-first walk,
// the variables they reference and the comments they carry.
package callctx

import (
	"github.com/sourcegraph/conc/iter"

	"catchminer/internal/semantic"
	"catchminer/internal/syntax"
)

// Declarations enumerates the methods declared in a file.
type Declarations interface {
	Methods(file *syntax.File) []*semantic.Method
}

// Index maps resolved method symbols to their declarations across the whole
// corpus. It is built once per run and read concurrently afterwards.
type Index struct {
	bodies map[string]*syntax.Node
}

type declEntry struct {
	symbol string
	body   *syntax.Node
}

// BuildIndex resolves every method declaration in files. Files are scanned
// in parallel; on duplicate symbols the declaration from the earliest file
// wins.
func BuildIndex(files []*syntax.File, decls Declarations, workers int) *Index {
	mapper := iter.Mapper[*syntax.File, []declEntry]{MaxGoroutines: workers}
	perFile := mapper.Map(files, func(f **syntax.File) []declEntry {
		var out []declEntry
		for _, m := range decls.Methods(*f) {
			if body := m.Body(); body != nil && m.Symbol != "" {
				out = append(out, declEntry{symbol: m.Symbol, body: body})
			}
		}
		return out
	})

	idx := &Index{bodies: make(map[string]*syntax.Node)}
	for _, entries := range perFile {
		for _, e := range entries {
			if _, ok := idx.bodies[e.symbol]; !ok {
				idx.bodies[e.symbol] = e.body
			}
		}
	}
	return idx
}

// Body returns the body of the method with the given symbol.
func (idx *Index) Body(symbol string) (*syntax.Node, bool) {
	if idx == nil {
		return nil, false
	}
	b, ok := idx.bodies[symbol]
	return b, ok
}

// Len returns the number of indexed methods.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.bodies)
}
