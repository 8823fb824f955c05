package semantic

import (
	"strings"

	"catchminer/internal/syntax"
)

// TypeName resolves a type syntax node to the full name of a corpus type.
func (p *Program) TypeName(typ *syntax.Node) (string, bool) {
	if typ == nil {
		return "", false
	}
	if t := p.lookupType(typ.Text(), typ.Origin()); t != nil {
		return t.FullName, true
	}
	return "", false
}

// lookupType finds a corpus type by the name written at ctx, trying in turn
// the name as fully qualified, nested types of the enclosing types, the
// enclosing namespaces, the file's using directives and finally a unique
// simple name.
func (p *Program) lookupType(name string, ctx *syntax.Node) *Type {
	name = strings.TrimPrefix(syntax.NormalizeName(name), "global::")
	name = strings.TrimSuffix(name, "?")
	if name == "" {
		return nil
	}
	if t, ok := p.types[name]; ok {
		return t
	}
	if ctx == nil {
		return nil
	}

	for t := p.enclosingType(ctx); t != nil; t = t.outer {
		if nt, ok := p.types[t.FullName+"."+name]; ok {
			return nt
		}
	}

	for ns := namespaceAt(ctx); ns != ""; ns = parentNamespace(ns) {
		if t, ok := p.types[ns+"."+name]; ok {
			return t
		}
	}

	if f := ctx.File(); f != nil {
		for _, u := range p.usings[f] {
			if t, ok := p.types[u+"."+name]; ok {
				return t
			}
		}
	}

	if !strings.Contains(name, ".") {
		if list := p.bySimple[name]; len(list) == 1 {
			return list[0]
		}
	}
	return nil
}

// enclosingType returns the innermost corpus type declared around n.
func (p *Program) enclosingType(n *syntax.Node) *Type {
	n = n.Origin()
	for a := n; a != nil; a = a.Parent {
		if a.Kind == syntax.KindClass {
			if t, ok := p.byDecl[a]; ok {
				return t
			}
		}
	}
	return nil
}

// baseTypes returns the corpus types t derives from, nearest first.
func (p *Program) baseTypes(t *Type) []*Type {
	var out []*Type
	seen := map[*Type]bool{t: true}
	queue := []*Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, b := range cur.Bases {
			bt := p.lookupType(b, cur.Decl)
			if bt == nil || seen[bt] {
				continue
			}
			seen[bt] = true
			out = append(out, bt)
			queue = append(queue, bt)
		}
	}
	return out
}

// findMethod looks up a method by name on t and its bases. An overload with a
// matching parameter count wins; otherwise the first overload by name.
func (p *Program) findMethod(t *Type, name string, arity int) *Method {
	var fallback *Method
	for _, cur := range append([]*Type{t}, p.baseTypes(t)...) {
		for _, m := range cur.Methods {
			if m.Name != name || m.Decl.Kind != syntax.KindMethod {
				continue
			}
			if len(m.Params) == arity {
				return m
			}
			if fallback == nil {
				fallback = m
			}
		}
	}
	return fallback
}

// findMember looks up a field or property by name on t and its bases.
func (p *Program) findMember(t *Type, name string) *syntax.Node {
	for _, cur := range append([]*Type{t}, p.baseTypes(t)...) {
		if d, ok := cur.members[name]; ok {
			return d
		}
	}
	return nil
}

// namespaceAt returns the namespace in effect at n.
func namespaceAt(n *syntax.Node) string {
	var parts []string
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Kind == syntax.KindNamespace {
			parts = append([]string{nameText(a)}, parts...)
		}
	}
	if f := n.File(); f != nil && f.Root != nil {
		for _, c := range f.Root.Children {
			if c.Type == "file_scoped_namespace_declaration" && !c.Encloses(n) {
				parts = append([]string{nameText(c)}, parts...)
				break
			}
		}
	}
	return strings.Join(parts, ".")
}

func parentNamespace(ns string) string {
	if i := strings.LastIndexByte(ns, '.'); i >= 0 {
		return ns[:i]
	}
	return ""
}
