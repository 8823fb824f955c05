// Package semantic answers the name and type questions the classifiers ask
// about a parsed corpus: the type of a declaration, the variable an
// identifier refers to, the method a call targets and whether a region
// writes a variable.
//
// Resolution is syntactic and best effort. Types and methods declared in the
// corpus are resolved to fully qualified names; everything else is reported
// as unresolved and callers fall back to source text. An optional SCIP index
// overlays precise call targets, including library methods.
package semantic

import (
	"strings"

	"catchminer/internal/syntax"
)

// Resolver is the resolution service consumed by the classifiers.
type Resolver interface {
	// TypeName resolves a type syntax node to a fully qualified type name.
	TypeName(typ *syntax.Node) (string, bool)
	// SymbolOf resolves an identifier, a this-member access or a declaring
	// node to the variable it denotes.
	SymbolOf(n *syntax.Node) (*Symbol, bool)
	// ResolveCall returns the method an invocation targets, or nil when it
	// cannot be resolved. An error reports a malformed invocation.
	ResolveCall(call *syntax.Node) (*Method, error)
	// DeclaredMethod returns the method declared by a method or constructor
	// declaration.
	DeclaredMethod(decl *syntax.Node) (*Method, bool)
	// WrittenInside reports whether region assigns, increments or passes by
	// reference the given variable.
	WrittenInside(region *syntax.Node, sym *Symbol) bool
}

// SymbolKind classifies a resolved variable.
type SymbolKind uint8

const (
	SymbolLocal SymbolKind = iota + 1
	SymbolParameter
	SymbolField
	SymbolProperty
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolLocal:
		return "local"
	case SymbolParameter:
		return "parameter"
	case SymbolField:
		return "field"
	case SymbolProperty:
		return "property"
	}
	return "unknown"
}

// Symbol is a resolved variable. Two symbols denote the same variable when
// they share a declaring node.
type Symbol struct {
	Kind SymbolKind
	Name string
	// Type is fully qualified for corpus types and the source text otherwise.
	Type string
	// Decl is the declaring node: a variable declarator, parameter, catch
	// declaration, declaration expression or pattern, foreach statement,
	// lambda or property declaration.
	Decl *syntax.Node
}

// Same reports whether s and o denote the same variable.
func (s *Symbol) Same(o *Symbol) bool {
	return s != nil && o != nil && s.Decl == o.Decl && s.Name == o.Name
}

// Type is a class, struct, interface or record declared in the corpus.
// Partial declarations are merged into the first one seen.
type Type struct {
	Name      string
	FullName  string
	Namespace string
	Decl      *syntax.Node
	Bases     []string
	Methods   []*Method

	outer   *Type
	members map[string]*syntax.Node
}

// Method is a method or constructor declared in the corpus, or a library
// method known only through the SCIP overlay.
type Method struct {
	// Symbol is the display form, e.g. "App.Store.Save(string)"; for
	// external methods it carries no parameter list.
	Symbol     string
	Name       string
	Owner      *Type
	Params     []string
	ReturnType string
	Decl       *syntax.Node
	External   bool
}

// Body returns the block or expression body of the declaration.
func (m *Method) Body() *syntax.Node {
	if m == nil || m.Decl == nil {
		return nil
	}
	if b := m.Decl.Child("body"); b != nil {
		return b
	}
	if b := m.Decl.FirstChild(syntax.KindBlock); b != nil {
		return b
	}
	for _, c := range m.Decl.Children {
		if c.Type == "arrow_expression_clause" {
			return c
		}
	}
	return nil
}

// ReturnsBool reports whether the method is declared to return a boolean.
func (m *Method) ReturnsBool() bool {
	if m == nil {
		return false
	}
	return IsBool(m.ReturnType)
}

// IsBool reports whether a type name denotes System.Boolean.
func IsBool(typeName string) bool {
	switch strings.TrimSpace(typeName) {
	case "bool", "Boolean", "System.Boolean":
		return true
	}
	return false
}
