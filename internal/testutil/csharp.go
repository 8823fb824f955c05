//go:build cgo

// Package testutil provides helpers for tests that parse C# fixtures.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"catchminer/internal/frontend"
	"catchminer/internal/syntax"
)

// ParseCSharp parses a C# snippet, failing the test on error.
func ParseCSharp(t testing.TB, path, src string) *syntax.File {
	t.Helper()

	f, err := frontend.NewParser().Parse(context.Background(), path, []byte(src))
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return f
}

// ParseCorpus parses several snippets keyed by path, returned in path order.
func ParseCorpus(t testing.TB, sources map[string]string) []*syntax.File {
	t.Helper()

	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]*syntax.File, 0, len(paths))
	for _, p := range paths {
		files = append(files, ParseCSharp(t, p, sources[p]))
	}
	return files
}

// FixtureDir returns the absolute path of testdata/csharp/<name>.
func FixtureDir(t testing.TB, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}

	// Navigate from internal/testutil to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	dir := filepath.Join(projectRoot, "testdata", "csharp", name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", dir)
	}
	return dir
}

// FindCall returns the first invocation in f whose callee text, normalised,
// equals name.
func FindCall(t testing.TB, f *syntax.File, name string) *syntax.Node {
	t.Helper()

	call := syntax.Find(f.Root, func(n *syntax.Node) bool {
		if n.Kind != syntax.KindInvocation || len(n.Children) == 0 {
			return false
		}
		return syntax.NormalizeName(n.Children[0].Text()) == name
	})
	if call == nil {
		t.Fatalf("No call to %s in %s", name, f.Path)
	}
	return call
}

// FindNode returns the first node of the given kind whose text starts with
// prefix.
func FindNode(t testing.TB, f *syntax.File, kind syntax.Kind, prefix string) *syntax.Node {
	t.Helper()

	n := syntax.Find(f.Root, func(n *syntax.Node) bool {
		return n.Kind == kind && strings.HasPrefix(n.Text(), prefix)
	})
	if n == nil {
		t.Fatalf("No %s starting with %q in %s", kind, prefix, f.Path)
	}
	return n
}
