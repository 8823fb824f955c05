//go:build cgo

package frontend

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"catchminer/internal/syntax"
)

// Available reports whether parsing is supported in this build.
func Available() bool { return true }

// Parser wraps a tree-sitter parser for C#. It is safe for concurrent use;
// calls are serialised on the underlying parser, so parallel callers should
// use one Parser each.
type Parser struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewParser creates a new C# parser.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses source and returns its syntax tree. Syntax errors do not fail
// the parse; tree-sitter recovers and the damaged region becomes opaque nodes.
func (p *Parser) Parse(ctx context.Context, path string, source []byte) (*syntax.File, error) {
	p.mu.Lock()
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	p.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	root := convert(tree.RootNode(), "", source)
	return syntax.NewFile(path, source, root), nil
}

type spanKey struct {
	start, end uint32
	typ        string
}

func convert(n *sitter.Node, field string, source []byte) *syntax.Node {
	typ := n.Type()
	out := &syntax.Node{
		Kind:    kindOf(typ),
		Type:    typ,
		Field:   field,
		Start:   int(n.StartByte()),
		End:     int(n.EndByte()),
		Line:    int(n.StartPoint().Row) + 1,
		EndLine: int(n.EndPoint().Row) + 1,
		Column:  int(n.StartPoint().Column),
	}

	fields := make(map[spanKey]string)
	for _, name := range fieldNames {
		if c := n.ChildByFieldName(name); c != nil {
			fields[spanKey{c.StartByte(), c.EndByte(), c.Type()}] = name
		}
	}

	count := int(n.ChildCount())
	out.Children = make([]*syntax.Node, 0, n.NamedChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		if !c.IsNamed() {
			if out.Op == "" && carriesOp(out.Kind) {
				out.Op = c.Type()
			}
			continue
		}
		if c.Type() == "assignment_operator" {
			out.Op = c.Content(source)
			continue
		}
		out.Children = append(out.Children, convert(c, fields[spanKey{c.StartByte(), c.EndByte(), c.Type()}], source))
	}
	return out
}
