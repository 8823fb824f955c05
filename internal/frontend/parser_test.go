//go:build cgo

package frontend

import (
	"context"
	"testing"

	"catchminer/internal/syntax"
)

const sample = `
namespace App
{
    class Store
    {
        bool Save(string path)
        {
            try
            {
                var ok = Write(path);
                if (!ok) { return false; }
            }
            catch (IOException e)
            {
                Log(e); // report
                throw;
            }
            return true;
        }
    }
}
`

func TestParseStructure(t *testing.T) {
	f, err := NewParser().Parse(context.Background(), "Store.cs", []byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Root.Kind != syntax.KindCompilationUnit {
		t.Fatalf("root kind = %v, want compilation_unit", f.Root.Kind)
	}

	method := syntax.FindKind(f.Root, syntax.KindMethod)
	if method == nil {
		t.Fatal("no method declaration found")
	}
	if name := method.Child("name"); name == nil || name.Text() != "Save" {
		t.Errorf("method name = %q, want Save", name.Text())
	}

	catch := syntax.FindKind(f.Root, syntax.KindCatch)
	if catch == nil {
		t.Fatal("no catch clause found")
	}
	decl := catch.FirstChild(syntax.KindCatchDeclaration)
	if decl == nil {
		t.Fatal("catch clause has no declaration")
	}
	if typ := decl.Child("type"); typ == nil || typ.Text() != "IOException" {
		t.Errorf("catch type = %q, want IOException", typ.Text())
	}
	if catch.Line != 13 {
		t.Errorf("catch line = %d, want 13", catch.Line)
	}
	if syntax.FindKind(catch, syntax.KindThrow) == nil {
		t.Error("catch body should contain a throw statement")
	}
	if syntax.FindKind(catch, syntax.KindComment) == nil {
		t.Error("comments should be kept as nodes")
	}

	ifStmt := syntax.FindKind(f.Root, syntax.KindIf)
	if ifStmt == nil {
		t.Fatal("no if statement found")
	}
	cond := ifStmt.Child("condition")
	if cond == nil || cond.Kind != syntax.KindPrefixUnary || cond.Op != "!" {
		t.Errorf("if condition = %+v, want prefix unary '!'", cond)
	}

	call := syntax.FindKind(f.Root, syntax.KindInvocation)
	if call == nil || call.Child("function").Text() != "Write" {
		t.Error("first invocation should be Write(path)")
	}
	if call.Child("arguments").Kind != syntax.KindArgumentList {
		t.Error("invocation arguments should be an argument list")
	}
}
