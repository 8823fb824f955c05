package semantic

import (
	"strings"

	"github.com/sourcegraph/conc/iter"

	"catchminer/internal/scipindex"
	"catchminer/internal/syntax"
)

// maxResolveDepth bounds receiver-chain and initializer inference.
const maxResolveDepth = 16

// Program is the resolution context for a whole corpus. It is immutable after
// NewProgram returns and safe for concurrent use.
type Program struct {
	files    []*syntax.File
	types    map[string]*Type
	bySimple map[string][]*Type
	byDecl   map[*syntax.Node]*Type
	methods  map[*syntax.Node]*Method
	usings   map[*syntax.File][]string

	overlay *scipindex.Index
	bySCIP  map[string]*Method
}

var _ Resolver = (*Program)(nil)

// Option configures a Program.
type Option func(*Program)

// WithSCIP overlays call targets from a SCIP index.
func WithSCIP(idx *scipindex.Index) Option {
	return func(p *Program) {
		p.overlay = idx
	}
}

// NewProgram collects the declarations of every file. Collection runs in
// parallel per file; merging happens in file order so that the first partial
// declaration of a type owns the merged result.
func NewProgram(files []*syntax.File, opts ...Option) *Program {
	p := &Program{
		files:    files,
		types:    make(map[string]*Type),
		bySimple: make(map[string][]*Type),
		byDecl:   make(map[*syntax.Node]*Type),
		methods:  make(map[*syntax.Node]*Method),
		usings:   make(map[*syntax.File][]string),
		bySCIP:   make(map[string]*Method),
	}
	for _, opt := range opts {
		opt(p)
	}

	collected := iter.Map(files, func(f **syntax.File) *fileDecls {
		return collectFile(*f)
	})
	for _, fd := range collected {
		p.merge(fd)
	}
	p.indexOverlay()
	return p
}

// Files returns the files the program was built from.
func (p *Program) Files() []*syntax.File {
	return p.files
}

// Types returns the number of distinct corpus types.
func (p *Program) Types() int {
	return len(p.types)
}

// Methods returns every method and constructor declared in file, in source
// order.
func (p *Program) Methods(file *syntax.File) []*Method {
	var out []*Method
	syntax.Inspect(file.Root, func(n *syntax.Node) bool {
		if m, ok := p.methods[n]; ok {
			out = append(out, m)
		}
		return true
	})
	return out
}

type fileDecls struct {
	file   *syntax.File
	usings []string
	types  []*Type
}

func collectFile(f *syntax.File) *fileDecls {
	fd := &fileDecls{file: f}
	if f == nil || f.Root == nil {
		return fd
	}
	fd.walk(f.Root, "", nil)
	return fd
}

func (fd *fileDecls) walk(n *syntax.Node, ns string, outer *Type) {
	for _, c := range n.Children {
		switch c.Kind {
		case syntax.KindUsing:
			if u := usingName(c); u != "" {
				fd.usings = append(fd.usings, u)
			}
		case syntax.KindNamespace:
			nested := joinName(ns, nameText(c))
			fd.walk(c, nested, outer)
			if c.Type == "file_scoped_namespace_declaration" {
				// Members may follow the declaration as siblings.
				ns = nested
			}
		case syntax.KindClass:
			fd.walk(c, ns, fd.addType(c, ns, outer))
		case syntax.KindMethod, syntax.KindConstructor:
			if outer != nil {
				outer.Methods = append(outer.Methods, newMethod(c, outer))
			}
		case syntax.KindField:
			if outer != nil {
				for _, d := range syntax.Descendants(c, syntax.KindVariableDeclarator) {
					if name := declaratorName(d); name != nil {
						outer.members[name.Text()] = d
					}
				}
			}
		case syntax.KindProperty:
			if outer != nil {
				if name := c.Child("name"); name != nil {
					outer.members[name.Text()] = c
				}
			}
		case syntax.KindOther:
			fd.walk(c, ns, outer)
		}
	}
}

func (fd *fileDecls) addType(decl *syntax.Node, ns string, outer *Type) *Type {
	name := nameText(decl)
	t := &Type{
		Name:      name,
		Namespace: ns,
		Decl:      decl,
		outer:     outer,
		members:   make(map[string]*syntax.Node),
	}
	if outer != nil {
		t.FullName = outer.FullName + "." + name
	} else {
		t.FullName = joinName(ns, name)
	}
	for _, c := range decl.Children {
		if c.Type == "base_list" {
			for _, b := range c.Children {
				if base := syntax.NormalizeName(b.Text()); base != "" {
					t.Bases = append(t.Bases, base)
				}
			}
		}
	}
	fd.types = append(fd.types, t)
	return t
}

func newMethod(decl *syntax.Node, owner *Type) *Method {
	m := &Method{
		Name:  nameText(decl),
		Owner: owner,
		Decl:  decl,
	}
	if params := decl.Child("parameters"); params != nil {
		for _, prm := range params.ChildrenOf(syntax.KindParameter) {
			m.Params = append(m.Params, syntax.CompactSpace(prm.Child("type").Text()))
		}
	}
	if decl.Kind == syntax.KindMethod {
		ret := decl.Child("returns")
		if ret == nil {
			ret = decl.Child("type")
		}
		m.ReturnType = syntax.CompactSpace(ret.Text())
	}
	m.Symbol = owner.FullName + "." + m.Name + "(" + strings.Join(m.Params, ", ") + ")"
	return m
}

func (p *Program) merge(fd *fileDecls) {
	p.usings[fd.file] = fd.usings
	for _, t := range fd.types {
		existing, ok := p.types[t.FullName]
		if !ok {
			p.types[t.FullName] = t
			p.bySimple[t.Name] = append(p.bySimple[t.Name], t)
			existing = t
		} else {
			existing.Bases = append(existing.Bases, t.Bases...)
			for name, d := range t.members {
				if _, dup := existing.members[name]; !dup {
					existing.members[name] = d
				}
			}
			for _, m := range t.Methods {
				m.Owner = existing
				existing.Methods = append(existing.Methods, m)
			}
		}
		p.byDecl[t.Decl] = existing
		for _, m := range t.Methods {
			p.methods[m.Decl] = m
		}
	}
}

// indexOverlay maps the SCIP symbols of method definitions to corpus methods.
func (p *Program) indexOverlay() {
	if p.overlay == nil {
		return
	}
	for decl, m := range p.methods {
		name := decl.Child("name")
		if name == nil || decl.File() == nil {
			continue
		}
		if occ, ok := p.overlay.At(decl.File().Path, name.Line-1, name.Column); ok && occ.Definition {
			p.bySCIP[occ.Symbol] = m
		}
	}
}

// DeclaredMethod returns the method declared by decl.
func (p *Program) DeclaredMethod(decl *syntax.Node) (*Method, bool) {
	if decl == nil {
		return nil, false
	}
	m, ok := p.methods[decl.Origin()]
	return m, ok
}

func nameText(n *syntax.Node) string {
	if name := n.Child("name"); name != nil {
		return syntax.NormalizeName(name.Text())
	}
	if id := n.FirstChild(syntax.KindIdentifier, syntax.KindQualifiedName); id != nil {
		return syntax.NormalizeName(id.Text())
	}
	return ""
}

func usingName(n *syntax.Node) string {
	s := syntax.CompactSpace(n.Text())
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimPrefix(s, "global ")
	s = strings.TrimPrefix(s, "using ")
	s = strings.TrimPrefix(s, "static ")
	if strings.Contains(s, "=") {
		return ""
	}
	return strings.TrimSpace(s)
}

func joinName(ns, name string) string {
	if ns == "" {
		return name
	}
	if name == "" {
		return ns
	}
	return ns + "." + name
}
