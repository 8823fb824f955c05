package semantic

import (
	"catchminer/internal/syntax"
)

// SymbolOf resolves n to the variable it denotes.
func (p *Program) SymbolOf(n *syntax.Node) (*Symbol, bool) {
	s := p.symbolOf(n, 0)
	return s, s != nil
}

func (p *Program) symbolOf(n *syntax.Node, depth int) *Symbol {
	if n == nil || depth > maxResolveDepth {
		return nil
	}
	n = n.Origin()
	switch n.Kind {
	case syntax.KindIdentifier:
		if d := declaringNode(n); d != nil {
			return p.symbolFor(d, depth)
		}
		if n.Parent != nil && n.Parent.Kind == syntax.KindMemberAccess && n.Field == "name" {
			return p.symbolOf(n.Parent, depth)
		}
		if d := lookupLocal(n); d != nil {
			return p.symbolFor(d, depth)
		}
		if t := p.enclosingType(n); t != nil {
			if d := p.findMember(t, n.Text()); d != nil {
				return p.symbolFor(d, depth)
			}
		}
	case syntax.KindMemberAccess:
		recv := n.Child("expression")
		name := n.Child("name")
		if recv == nil || name == nil || recv.Kind != syntax.KindThis {
			return nil
		}
		if t := p.enclosingType(n); t != nil {
			if d := p.findMember(t, name.Text()); d != nil {
				return p.symbolFor(d, depth)
			}
		}
	case syntax.KindParenthesized:
		if len(n.Children) > 0 {
			return p.symbolOf(n.Children[0], depth)
		}
	default:
		if _, _, _, ok := declaration(n); ok {
			return p.symbolFor(n, depth)
		}
	}
	return nil
}

// declaration describes what a declaring node declares.
func declaration(d *syntax.Node) (name, typ *syntax.Node, kind SymbolKind, ok bool) {
	switch d.Kind {
	case syntax.KindVariableDeclarator:
		name = declaratorName(d)
		kind = SymbolLocal
		if decl := d.Parent; decl != nil && decl.Kind == syntax.KindVariableDeclaration {
			typ = decl.Child("type")
			if typ == nil && len(decl.Children) > 0 && decl.Children[0] != d {
				typ = decl.Children[0]
			}
			if decl.Parent != nil && decl.Parent.Kind == syntax.KindField {
				kind = SymbolField
			}
		}
	case syntax.KindParameter:
		name = d.Child("name")
		if name == nil {
			name = lastChild(d, syntax.KindIdentifier)
		}
		typ = d.Child("type")
		kind = SymbolParameter
	case syntax.KindCatchDeclaration:
		name = d.Child("name")
		typ = d.Child("type")
		kind = SymbolLocal
	case syntax.KindDeclarationExpression, syntax.KindDeclarationPattern:
		name = d.Child("name")
		if name == nil {
			if des := d.Child("designation"); des != nil {
				name = syntax.FindKind(des, syntax.KindIdentifier)
			}
		}
		if name == nil {
			name = lastChild(d, syntax.KindIdentifier)
		}
		typ = d.Child("type")
		kind = SymbolLocal
	case syntax.KindForeach:
		name = d.Child("left")
		typ = d.Child("type")
		kind = SymbolLocal
	case syntax.KindLambda:
		if prm := d.Child("parameters"); prm != nil && prm.Kind == syntax.KindIdentifier {
			name = prm
		} else if len(d.Children) > 0 && d.Children[0].Kind == syntax.KindIdentifier {
			name = d.Children[0]
		}
		kind = SymbolParameter
	case syntax.KindProperty:
		name = d.Child("name")
		typ = d.Child("type")
		kind = SymbolProperty
	}
	if name == nil || name.Kind != syntax.KindIdentifier {
		return nil, nil, 0, false
	}
	return name, typ, kind, true
}

func declaratorName(d *syntax.Node) *syntax.Node {
	if name := d.Child("name"); name != nil {
		return name
	}
	if len(d.Children) > 0 && d.Children[0].Kind == syntax.KindIdentifier {
		return d.Children[0]
	}
	return nil
}

// declaratorValue returns the initializer expression of a declarator.
func declaratorValue(d *syntax.Node) *syntax.Node {
	if eq := d.FirstChild(syntax.KindEqualsValue); eq != nil {
		if len(eq.Children) > 0 {
			return eq.Children[len(eq.Children)-1]
		}
		return nil
	}
	name := declaratorName(d)
	for i := len(d.Children) - 1; i >= 0; i-- {
		c := d.Children[i]
		if c != name && c.Type != "bracketed_argument_list" && c.Kind != syntax.KindComment {
			return c
		}
	}
	return nil
}

// declaringNode returns the declaration whose name is id, if id is one.
func declaringNode(id *syntax.Node) *syntax.Node {
	d := id.Parent
	if d == nil {
		return nil
	}
	if d.Type == "single_variable_designation" && d.Parent != nil {
		d = d.Parent
	}
	if name, _, _, ok := declaration(d); ok && name == id {
		return d
	}
	return nil
}

// lookupLocal finds the local, parameter or pattern variable named by id that
// is in scope at id. Declarations under nodes that open their own scope are
// invisible to code after them. The search stops at the enclosing member.
func lookupLocal(id *syntax.Node) *syntax.Node {
	name := id.Text()
	child := id
	for a := id.Parent; a != nil; child, a = a, a.Parent {
		if a.Is(syntax.KindClass, syntax.KindNamespace, syntax.KindCompilationUnit) {
			return nil
		}
		var found *syntax.Node
		if n, _, _, ok := declaration(a); ok && n.Text() == name && n.Start < child.Start {
			found = a
		}
		for _, c := range a.Children {
			if c == child {
				break
			}
			if d := declIn(c, name); d != nil {
				found = d
			}
		}
		if found != nil {
			return found
		}
		if a.Kind.IsMember() || a.Kind == syntax.KindProperty {
			return nil
		}
	}
	return nil
}

// declIn returns the last declaration of name in n's subtree that remains in
// scope after n.
func declIn(n *syntax.Node, name string) *syntax.Node {
	var found *syntax.Node
	syntax.Inspect(n, func(d *syntax.Node) bool {
		if opensScope(d) {
			return false
		}
		if dn, _, _, ok := declaration(d); ok && dn.Text() == name {
			found = d
		}
		return true
	})
	return found
}

// opensScope mirrors syntax.Kind scoping for previous siblings: a catch
// declaration sitting directly under the searched ancestor is still visible.
func opensScope(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindBlock, syntax.KindLambda, syntax.KindLocalFunction, syntax.KindClass,
		syntax.KindMethod, syntax.KindConstructor, syntax.KindOtherMember, syntax.KindProperty,
		syntax.KindNamespace, syntax.KindCatch, syntax.KindTry, syntax.KindFor,
		syntax.KindForeach, syntax.KindWhile, syntax.KindDo, syntax.KindUsingStatement:
		return true
	}
	return false
}

func (p *Program) symbolFor(d *syntax.Node, depth int) *Symbol {
	name, typ, kind, ok := declaration(d)
	if !ok {
		return nil
	}
	return &Symbol{
		Kind: kind,
		Name: name.Text(),
		Type: p.declaredType(d, typ, depth),
		Decl: d,
	}
}

// declaredType resolves a declared type, inferring "var" from the
// initializer where possible.
func (p *Program) declaredType(d, typ *syntax.Node, depth int) string {
	if typ == nil {
		return ""
	}
	text := syntax.CompactSpace(typ.Text())
	if text != "var" {
		if full, ok := p.TypeName(typ); ok {
			return full
		}
		return text
	}
	if d.Kind != syntax.KindVariableDeclarator {
		return text
	}
	if inferred := p.expressionType(declaratorValue(d), depth+1); inferred != "" {
		return inferred
	}
	return text
}

// expressionType returns the static type of simple expressions.
func (p *Program) expressionType(e *syntax.Node, depth int) string {
	if e == nil || depth > maxResolveDepth {
		return ""
	}
	switch e.Kind {
	case syntax.KindObjectCreation, syntax.KindCast:
		typ := e.Child("type")
		if typ == nil {
			return ""
		}
		if full, ok := p.TypeName(typ); ok {
			return full
		}
		return syntax.CompactSpace(typ.Text())
	case syntax.KindInvocation:
		if m, _ := p.resolveCall(e, depth+1); m != nil && m.ReturnType != "" {
			if t := p.lookupType(m.ReturnType, m.Decl); t != nil {
				return t.FullName
			}
			return m.ReturnType
		}
	case syntax.KindBooleanLiteral:
		return "bool"
	case syntax.KindLiteral:
		switch e.Type {
		case "string_literal", "verbatim_string_literal", "raw_string_literal", "interpolated_string_expression":
			return "string"
		case "integer_literal":
			return "int"
		case "character_literal":
			return "char"
		case "real_literal":
			return "double"
		}
	case syntax.KindParenthesized, syntax.KindAwait:
		if len(e.Children) > 0 {
			return p.expressionType(e.Children[len(e.Children)-1], depth+1)
		}
	case syntax.KindIdentifier, syntax.KindMemberAccess:
		if s := p.symbolOf(e, depth+1); s != nil {
			return s.Type
		}
	}
	return ""
}

func lastChild(n *syntax.Node, kind syntax.Kind) *syntax.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i].Kind == kind {
			return n.Children[i]
		}
	}
	return nil
}
