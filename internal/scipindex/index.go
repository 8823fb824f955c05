// Package scipindex loads a SCIP index produced by scip-dotnet and answers
// "which symbol occurs at this position" queries. The resolver consults it
// before falling back to its own syntactic resolution.
package scipindex

import (
	"fmt"
	"os"
	"path/filepath"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"catchminer/internal/errors"
)

// Occurrence is one symbol occurrence.
type Occurrence struct {
	Symbol     string
	Definition bool
}

type position struct {
	line, col int32
}

// Index maps document positions to symbol occurrences.
type Index struct {
	docs    map[string]map[position]Occurrence
	symbols int
}

// Load reads and decodes a SCIP index file.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.IndexUnavailable, fmt.Sprintf("SCIP index not found at %s", path), err)
		}
		return nil, errors.Wrap(errors.IndexUnavailable, fmt.Sprintf("failed to read SCIP index from %s", path), err)
	}

	var raw scippb.Index
	if err := proto.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.IndexUnavailable, fmt.Sprintf("failed to parse SCIP index from %s", path), err)
	}
	return FromProto(&raw), nil
}

// FromProto builds an Index from a decoded SCIP index.
func FromProto(raw *scippb.Index) *Index {
	idx := &Index{docs: make(map[string]map[position]Occurrence)}
	seen := make(map[string]struct{})
	for _, doc := range raw.GetDocuments() {
		occs := make(map[position]Occurrence, len(doc.GetOccurrences()))
		for _, occ := range doc.GetOccurrences() {
			r := occ.GetRange()
			if len(r) < 3 || occ.GetSymbol() == "" {
				continue
			}
			occs[position{r[0], r[1]}] = Occurrence{
				Symbol:     occ.GetSymbol(),
				Definition: occ.GetSymbolRoles()&int32(scippb.SymbolRole_Definition) != 0,
			}
			seen[occ.GetSymbol()] = struct{}{}
		}
		idx.docs[filepath.ToSlash(doc.GetRelativePath())] = occs
	}
	idx.symbols = len(seen)
	return idx
}

// At returns the occurrence starting at the given 0-based line and column of
// a document, identified by its slash separated relative path.
func (i *Index) At(path string, line, col int) (Occurrence, bool) {
	if i == nil {
		return Occurrence{}, false
	}
	occ, ok := i.docs[path][position{int32(line), int32(col)}]
	return occ, ok
}

// Documents returns the number of indexed documents.
func (i *Index) Documents() int {
	return len(i.docs)
}

// Symbols returns the number of distinct symbols seen in occurrences.
func (i *Index) Symbols() int {
	return i.symbols
}
