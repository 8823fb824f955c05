package semantic

import "catchminer/internal/syntax"

// WrittenInside reports whether region assigns to sym, increments or
// decrements it, or passes it as a ref or out argument.
func (p *Program) WrittenInside(region *syntax.Node, sym *Symbol) bool {
	if region == nil || sym == nil {
		return false
	}
	written := false
	syntax.Inspect(region, func(n *syntax.Node) bool {
		if written {
			return false
		}
		var target *syntax.Node
		switch n.Kind {
		case syntax.KindAssignment:
			target = n.Child("left")
			if target == nil && len(n.Children) > 0 {
				target = n.Children[0]
			}
		case syntax.KindPrefixUnary, syntax.KindPostfixUnary:
			if n.Op == "++" || n.Op == "--" {
				target = operand(n)
			}
		case syntax.KindArgument:
			if n.Op == "ref" || n.Op == "out" {
				target = ArgumentExpression(n)
			}
		}
		if target != nil && p.refersTo(target, sym) {
			written = true
			return false
		}
		return true
	})
	return written
}

func (p *Program) refersTo(e *syntax.Node, sym *Symbol) bool {
	e = Unparen(e)
	if e == nil || !e.Is(syntax.KindIdentifier, syntax.KindMemberAccess) {
		return false
	}
	s, ok := p.SymbolOf(e)
	return ok && s.Same(sym)
}

func operand(n *syntax.Node) *syntax.Node {
	if o := n.Child("operand"); o != nil {
		return o
	}
	if len(n.Children) > 0 {
		return n.Children[0]
	}
	return nil
}

// Unparen strips enclosing parentheses from an expression.
func Unparen(e *syntax.Node) *syntax.Node {
	for e != nil && e.Kind == syntax.KindParenthesized && len(e.Children) > 0 {
		e = e.Children[0]
	}
	return e
}
