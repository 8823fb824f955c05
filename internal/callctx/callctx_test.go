//go:build cgo

package callctx

import (
	"testing"

	"catchminer/internal/finding"
	"catchminer/internal/predicate"
	"catchminer/internal/semantic"
	"catchminer/internal/slogutil"
	"catchminer/internal/syntax"
	"catchminer/internal/testutil"
)

const serviceSrc = `namespace App
{
    public class Service
    {
        public void Run()
        {
            try
            {
                A();
                A();
                System.IO.File.ReadAllText("x");
                Log.Info("starting");
            }
            catch (Exception e) { }
        }

        void A()
        {
            // load the cache
            B();
        }
        void B() { C(); }
        void C() { D(); }
        void D() { E(); }
        void E() { }
        void Recurse() { Recurse(); }
    }
}
`

type fixture struct {
	file *syntax.File
	prog *semantic.Program
	idx  *Index
	lib  *predicate.Library
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	files := testutil.ParseCorpus(t, map[string]string{"Service.cs": serviceSrc})
	prog := semantic.NewProgram(files)
	return fixture{
		file: files[0],
		prog: prog,
		idx:  BuildIndex(files, prog, 2),
		lib:  predicate.New(predicate.DefaultConfig(), prog),
	}
}

func tryBody(t *testing.T, f *syntax.File) *syntax.Node {
	t.Helper()
	return testutil.FindNode(t, f, syntax.KindTry, "try").Child("body")
}

func TestBuildIndex(t *testing.T) {
	fx := newFixture(t)
	if fx.idx.Len() != 7 {
		t.Errorf("Len() = %d, want 7", fx.idx.Len())
	}
	if _, ok := fx.idx.Body("App.Service.A()"); !ok {
		t.Error("A should be indexed")
	}
	if _, ok := fx.idx.Body("App.Service.Missing()"); ok {
		t.Error("unknown symbols must not be found")
	}
}

func TestBuildIndexFirstWriterWins(t *testing.T) {
	files := testutil.ParseCorpus(t, map[string]string{
		"a/Dup.cs": "namespace N { partial class Dup { void M() { First(); } } }",
		"b/Dup.cs": "namespace N { partial class Dup { void M() { Second(); } } }",
	})
	idx := BuildIndex(files, semantic.NewProgram(files), 0)

	body, ok := idx.Body("N.Dup.M()")
	if !ok {
		t.Fatal("M should be indexed")
	}
	if body.File().Path != "a/Dup.cs" {
		t.Errorf("body from %s, want a/Dup.cs", body.File().Path)
	}
}

func TestExpandDepthBound(t *testing.T) {
	fx := newFixture(t)
	e := NewExpander(fx.idx, fx.lib, DefaultOptions(), slogutil.NewDiscardLogger())

	ctx := e.Expand(tryBody(t, fx.file))

	want := []finding.Entry{
		{Name: "App.Service.A", Count: 2},
		{Name: "System.IO.File.ReadAllText", Count: 1},
		{Name: "App.Service.B", Count: 1},
		{Name: "App.Service.C", Count: 1},
		{Name: "App.Service.D", Count: 1},
	}
	got := ctx.Methods.Entries()
	if len(got) != len(want) {
		t.Fatalf("Methods = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Methods[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if ctx.Methods.Count("App.Service.E") != 0 {
		t.Error("E lies below the depth bound and must not be reached")
	}
	if ctx.Methods.Count("Log.Info") != 0 {
		t.Error("logging calls are not context")
	}
	for _, w := range []string{"load", "the", "cache"} {
		if ctx.Words.Count(w) != 1 {
			t.Errorf("comment word %q not collected", w)
		}
	}
}

func TestExpandNameCap(t *testing.T) {
	fx := newFixture(t)
	opts := DefaultOptions()
	opts.MaxNames = 2
	e := NewExpander(fx.idx, fx.lib, opts, nil)

	ctx := e.Expand(tryBody(t, fx.file))
	if ctx.Methods.Len() != 2 {
		t.Errorf("distinct names = %d, want 2: %s", ctx.Methods.Len(), ctx.Methods)
	}
	if ctx.Methods.Count("App.Service.A") != 2 {
		t.Errorf("repeat occurrences of a seen name still count: %s", ctx.Methods)
	}
}

func TestExpandLibraryPrefix(t *testing.T) {
	fx := newFixture(t)
	opts := DefaultOptions()
	opts.LibraryPrefixes = []string{"App"}
	e := NewExpander(fx.idx, fx.lib, opts, nil)

	ctx := e.Expand(tryBody(t, fx.file))
	if ctx.Methods.Count("App.Service.B") != 0 {
		t.Error("methods under a library prefix must not be expanded")
	}
}

func TestExpandRecursion(t *testing.T) {
	fx := newFixture(t)
	e := NewExpander(fx.idx, fx.lib, DefaultOptions(), nil)

	body, _ := fx.idx.Body("App.Service.Recurse()")
	ctx := e.Expand(body)
	if ctx.Methods.Count("App.Service.Recurse") != 1 {
		t.Errorf("Methods = %s, want a single Recurse", ctx.Methods)
	}
}

func TestExpandDeterministic(t *testing.T) {
	fx := newFixture(t)
	e := NewExpander(fx.idx, fx.lib, DefaultOptions(), nil)

	first := e.Expand(tryBody(t, fx.file))
	second := e.Expand(tryBody(t, fx.file))
	if first.Methods.String() != second.Methods.String() || first.Words.String() != second.Words.String() {
		t.Error("expanding the same region twice must give the same context")
	}
}

type panickingResolver struct{ semantic.Resolver }

func (panickingResolver) ResolveCall(*syntax.Node) (*semantic.Method, error) {
	panic("boom")
}

func TestExpandRecoversFromPanics(t *testing.T) {
	fx := newFixture(t)
	lib := predicate.New(predicate.DefaultConfig(), panickingResolver{fx.prog})
	e := NewExpander(fx.idx, lib, DefaultOptions(), nil)

	ctx := e.Expand(tryBody(t, fx.file))
	if ctx.Methods.Count("A") != 2 {
		t.Errorf("Methods = %s, want the textual name A recorded", ctx.Methods)
	}
}
