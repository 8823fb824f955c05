package scipindex

import (
	"os"
	"path/filepath"
	"testing"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"catchminer/internal/errors"
)

func sampleIndex() *scippb.Index {
	return &scippb.Index{
		Documents: []*scippb.Document{
			{
				RelativePath: "src/Store.cs",
				Occurrences: []*scippb.Occurrence{
					{Range: []int32{4, 13, 17}, Symbol: "scip-dotnet nuget . . App/Store#Save().", SymbolRoles: int32(scippb.SymbolRole_Definition)},
					{Range: []int32{9, 16, 9, 27}, Symbol: "scip-dotnet nuget System.IO 8.0.0 System/IO/File#ReadAllText()."},
					{Range: []int32{10, 2}, Symbol: "malformed"},
				},
			},
		},
	}
}

func TestFromProto(t *testing.T) {
	idx := FromProto(sampleIndex())

	if idx.Documents() != 1 {
		t.Errorf("Documents() = %d, want 1", idx.Documents())
	}
	if idx.Symbols() != 2 {
		t.Errorf("Symbols() = %d, want 2", idx.Symbols())
	}

	def, ok := idx.At("src/Store.cs", 4, 13)
	if !ok || !def.Definition {
		t.Errorf("At(4,13) = %+v, %v; want a definition", def, ok)
	}
	ref, ok := idx.At("src/Store.cs", 9, 16)
	if !ok || ref.Definition {
		t.Errorf("At(9,16) = %+v, %v; want a reference", ref, ok)
	}
	if _, ok := idx.At("src/Store.cs", 10, 2); ok {
		t.Error("occurrences with short ranges should be ignored")
	}
	if _, ok := idx.At("src/Other.cs", 4, 13); ok {
		t.Error("unknown documents should have no occurrences")
	}

	var nilIdx *Index
	if _, ok := nilIdx.At("src/Store.cs", 4, 13); ok {
		t.Error("a nil index should answer no occurrence")
	}
}

func TestLoad(t *testing.T) {
	data, err := proto.Marshal(sampleIndex())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "index.scip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Documents() != 1 {
		t.Errorf("Documents() = %d, want 1", idx.Documents())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.scip"))
	if !errors.Is(err, errors.IndexUnavailable) {
		t.Errorf("missing file: err = %v, want INDEX_UNAVAILABLE", err)
	}

	bad := filepath.Join(dir, "bad.scip")
	if err := os.WriteFile(bad, []byte{0xff, 0xff, 0xff}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(bad); !errors.Is(err, errors.IndexUnavailable) {
		t.Errorf("corrupt file: err = %v, want INDEX_UNAVAILABLE", err)
	}
}
