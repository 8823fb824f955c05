package semantic

import (
	"errors"
	"fmt"
	"strings"

	"catchminer/internal/scipindex"
	"catchminer/internal/syntax"
)

// ErrMalformedCall is returned for invocations without a callee.
var ErrMalformedCall = errors.New("invocation has no callee")

// ResolveCall returns the method an invocation targets.
func (p *Program) ResolveCall(call *syntax.Node) (*Method, error) {
	return p.resolveCall(call, 0)
}

func (p *Program) resolveCall(call *syntax.Node, depth int) (*Method, error) {
	if call == nil || depth > maxResolveDepth {
		return nil, nil
	}
	call = call.Origin()
	if call.Kind != syntax.KindInvocation {
		return nil, fmt.Errorf("resolve %s at line %d: not an invocation", call.Kind, call.Line)
	}
	fn := Callee(call)
	if fn == nil {
		return nil, fmt.Errorf("resolve call at %s:%d: %w", filePath(call), call.Line, ErrMalformedCall)
	}

	if m := p.fromOverlay(fn); m != nil {
		return m, nil
	}

	arity := len(Arguments(call))
	switch fn.Kind {
	case syntax.KindIdentifier, syntax.KindGenericName:
		name := simpleName(fn)
		for t := p.enclosingType(call); t != nil; t = t.outer {
			if m := p.findMethod(t, name, arity); m != nil {
				return m, nil
			}
		}
	case syntax.KindMemberAccess:
		name := simpleName(fn.Child("name"))
		if name == "" {
			name = simpleName(lastChild(fn, syntax.KindIdentifier))
		}
		if t := p.receiverType(receiver(fn), depth+1); t != nil {
			return p.findMethod(t, name, arity), nil
		}
	}
	return nil, nil
}

// fromOverlay resolves a callee through the SCIP index.
func (p *Program) fromOverlay(fn *syntax.Node) *Method {
	if p.overlay == nil {
		return nil
	}
	tok := nameToken(fn)
	if tok == nil || tok.File() == nil {
		return nil
	}
	occ, ok := p.overlay.At(tok.File().Path, tok.Line-1, tok.Column)
	if !ok {
		return nil
	}
	if m, ok := p.bySCIP[occ.Symbol]; ok {
		return m
	}
	name := scipindex.DisplayName(occ.Symbol)
	if name == "" {
		return nil
	}
	simple := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		simple = name[i+1:]
	}
	return &Method{Symbol: name, Name: simple, External: true}
}

// receiverType returns the corpus type of a member access receiver.
func (p *Program) receiverType(recv *syntax.Node, depth int) *Type {
	if recv == nil || depth > maxResolveDepth {
		return nil
	}
	switch recv.Kind {
	case syntax.KindThis:
		return p.enclosingType(recv)
	case syntax.KindBase:
		if t := p.enclosingType(recv); t != nil {
			if bases := p.baseTypes(t); len(bases) > 0 {
				return bases[0]
			}
		}
		return nil
	case syntax.KindIdentifier:
		if s := p.symbolOf(recv, depth); s != nil {
			return p.lookupType(s.Type, recv)
		}
		return p.lookupType(recv.Text(), recv)
	case syntax.KindMemberAccess:
		if s := p.symbolOf(recv, depth); s != nil {
			return p.lookupType(s.Type, recv)
		}
		if t := p.lookupType(recv.Text(), recv); t != nil {
			return t
		}
		inner := p.receiverType(receiver(recv), depth+1)
		if inner == nil {
			return nil
		}
		if d := p.findMember(inner, simpleName(recv.Child("name"))); d != nil {
			if s := p.symbolFor(d, depth+1); s != nil {
				return p.lookupType(s.Type, d)
			}
		}
		return nil
	case syntax.KindGenericName, syntax.KindQualifiedName:
		return p.lookupType(recv.Text(), recv)
	case syntax.KindObjectCreation, syntax.KindCast:
		return p.lookupType(recv.Child("type").Text(), recv)
	case syntax.KindInvocation:
		m, _ := p.resolveCall(recv, depth+1)
		if m == nil || m.Decl == nil {
			return nil
		}
		return p.lookupType(m.ReturnType, m.Decl)
	case syntax.KindParenthesized, syntax.KindAwait:
		if len(recv.Children) > 0 {
			return p.receiverType(recv.Children[len(recv.Children)-1], depth+1)
		}
	}
	return nil
}

// Callee returns the expression an invocation calls.
func Callee(call *syntax.Node) *syntax.Node {
	if fn := call.Child("function"); fn != nil {
		return fn
	}
	if len(call.Children) > 0 && call.Children[0].Kind != syntax.KindArgumentList {
		return call.Children[0]
	}
	return nil
}

// Arguments returns the argument nodes of an invocation.
func Arguments(call *syntax.Node) []*syntax.Node {
	args := call.Child("arguments")
	if args == nil {
		args = call.FirstChild(syntax.KindArgumentList)
	}
	return args.ChildrenOf(syntax.KindArgument)
}

// ArgumentExpression returns the value expression of an argument.
func ArgumentExpression(arg *syntax.Node) *syntax.Node {
	for i := len(arg.Children) - 1; i >= 0; i-- {
		if c := arg.Children[i]; c.Kind != syntax.KindComment && c.Type != "name_colon" {
			return c
		}
	}
	return nil
}

// receiver returns the object expression of a member access. For the member
// binding in "x?.M()" it is the conditional access target.
func receiver(fn *syntax.Node) *syntax.Node {
	if fn.Type == "member_binding_expression" {
		if ca := fn.Ancestor(syntax.KindConditionalAccess); ca != nil && len(ca.Children) > 0 {
			return ca.Children[0]
		}
		return nil
	}
	if e := fn.Child("expression"); e != nil {
		return e
	}
	if len(fn.Children) > 1 {
		return fn.Children[0]
	}
	return nil
}

// nameToken returns the identifier token naming the member a callee calls.
func nameToken(fn *syntax.Node) *syntax.Node {
	switch fn.Kind {
	case syntax.KindIdentifier:
		return fn
	case syntax.KindGenericName:
		return fn.FirstChild(syntax.KindIdentifier)
	case syntax.KindMemberAccess:
		name := fn.Child("name")
		if name == nil {
			name = lastChild(fn, syntax.KindIdentifier)
		}
		if name != nil && name.Kind == syntax.KindGenericName {
			return name.FirstChild(syntax.KindIdentifier)
		}
		return name
	}
	return nil
}

func simpleName(n *syntax.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == syntax.KindGenericName {
		if id := n.FirstChild(syntax.KindIdentifier); id != nil {
			return id.Text()
		}
	}
	return syntax.NormalizeName(n.Text())
}

func filePath(n *syntax.Node) string {
	if f := n.File(); f != nil {
		return f.Path
	}
	return "?"
}
