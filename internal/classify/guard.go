package classify

import (
	"catchminer/internal/finding"
	"catchminer/internal/semantic"
	"catchminer/internal/syntax"
)

// guard is the construct found to inspect a call's outcome.
type guard struct {
	kind finding.GuardKind
	// node is the if or while statement, the conditional expression, or
	// the statement holding the assert call or comparison.
	node *syntax.Node
}

// body returns the statements the guard hands control to.
func (g guard) body() []*syntax.Node {
	switch g.kind {
	case finding.GuardIf:
		return []*syntax.Node{g.node.Child("consequence"), g.node.Child("alternative")}
	case finding.GuardWhile:
		if b := g.node.Child("body"); b != nil {
			return []*syntax.Node{b}
		}
		return []*syntax.Node{lastStatement(g.node)}
	case finding.GuardTernary:
		return []*syntax.Node{syntax.Statement(g.node)}
	}
	return []*syntax.Node{g.node}
}

// GuardedCall classifies one call when its result is checked, and returns
// nil otherwise.
func (c *Classifier) GuardedCall(call *syntax.Node) *finding.Finding {
	g, m, ok := c.findGuard(call)
	if !ok {
		return nil
	}

	fd := &finding.Finding{
		Kind:     finding.KindGuardedCall,
		Key:      c.signature(call, m),
		Location: locationOf(call),
		Method:   c.methodName(call),
		Call:     syntax.CompactSpace(call.Text()),
		Guard:    g.kind,
		GuardLoc: locationOf(g.node),
		Checked:  true,
	}
	bodies := g.body()
	fd.Block, fd.BlockLoc = blockText(bodies)
	c.classifyBodies(fd, bodies...)
	fd.Context = c.context(g.node)
	return fd
}

// signature is the grouping key of a call: its resolved symbol, else its
// normalised text, else a sentinel.
func (c *Classifier) signature(call *syntax.Node, m *semantic.Method) string {
	if m != nil && m.Symbol != "" {
		return m.Symbol
	}
	if fn := semantic.Callee(call); fn != nil {
		if name := syntax.NormalizeName(fn.Text()); name != "" {
			return name
		}
	}
	return finding.Unresolved
}

// findGuard locates the construct checking call's result.
//
// A call inside the condition of an if or while, or in the condition slot
// of an assert, is guarded directly; a boolean call may also be guarded by
// a ternary. Otherwise the result is followed through parentheses, member
// accesses and assignments: an ==/!= comparison checks it in place, and a
// variable bound to it is looked up in later sibling checks.
func (c *Classifier) findGuard(call *syntax.Node) (guard, *semantic.Method, bool) {
	var m *semantic.Method
	if c.res != nil {
		var err error
		if m, err = c.res.ResolveCall(call); err != nil {
			c.logger.Debug("Call not resolved", "location", location(call), "error", err.Error())
			return guard{}, nil, false
		}
	}
	isBool := m.ReturnsBool()

	if g, ok := c.guardOf(call, isBool); ok {
		return g, m, true
	}
	if isBool {
		g, ok := c.track(call, climb(call), true)
		return g, m, ok
	}

	e := climb(call)
	if isComparison(e.Parent) {
		cmp := e.Parent
		stmt := syntax.Statement(cmp)
		if stmt == nil || chained(call, stmt) {
			return guard{}, nil, false
		}
		if stmt.Kind == syntax.KindLocalDeclaration {
			g, ok := c.track(call, climb(cmp), true)
			return g, m, ok
		}
		return guard{kind: finding.GuardComparison, node: stmt}, m, true
	}
	g, ok := c.track(call, e, false)
	return g, m, ok
}

// guardOf classifies the innermost construct whose condition holds e. The
// walk gives up at the enclosing statement. A boolean result may sit
// anywhere inside the condition, so the walk climbs through enclosing
// calls; any other result stops at the first call between e and the
// condition, whose result is what the condition would check.
func (c *Classifier) guardOf(e *syntax.Node, isBool bool) (guard, bool) {
	for a := e.Parent; a != nil; a = a.Parent {
		switch a.Kind {
		case syntax.KindIf, syntax.KindWhile:
			if !conditionHolds(a, e) {
				return guard{}, false
			}
			if a.Kind == syntax.KindIf {
				return guard{kind: finding.GuardIf, node: a}, true
			}
			return guard{kind: finding.GuardWhile, node: a}, true
		case syntax.KindConditional:
			if isBool && conditionHolds(a, e) {
				return guard{kind: finding.GuardTernary, node: a}, true
			}
		case syntax.KindArgument:
			var inv *syntax.Node
			if a.Parent != nil {
				inv = a.Parent.Parent
			}
			if inv.Is(syntax.KindInvocation) && c.lib.IsAssert(inv) {
				cond := c.lib.AssertCondition(inv)
				if cond != nil && semantic.ArgumentExpression(a) == cond {
					if stmt := syntax.Statement(inv); stmt != nil {
						return guard{kind: finding.GuardAssert, node: stmt}, true
					}
				}
			}
		case syntax.KindInvocation, syntax.KindObjectCreation:
			if !isBool {
				return guard{}, false
			}
		case syntax.KindLambda:
			return guard{}, false
		}
		if a.Kind.IsStatement() || a.Kind.IsMember() {
			return guard{}, false
		}
	}
	return guard{}, false
}

// track follows a result bound to a variable. e is the expression holding
// the call's result after climbing wrappers. A call that is itself the
// receiver or argument of another call is never tracked.
func (c *Classifier) track(call, e *syntax.Node, isBool bool) (guard, bool) {
	if c.res == nil {
		return guard{}, false
	}
	stmt := syntax.Statement(call)
	if stmt == nil || chained(call, stmt) {
		return guard{}, false
	}

	var sym *semantic.Symbol
	p := e.Parent
	if p != nil && p.Kind == syntax.KindEqualsValue {
		p = p.Parent
	}
	switch {
	case p == nil:
	case p.Kind == syntax.KindVariableDeclarator && stmt.Is(syntax.KindLocalDeclaration, syntax.KindUsingStatement):
		sym, _ = c.res.SymbolOf(p)
	case p.Kind == syntax.KindAssignment && p.Op == "=" && assignedValue(p) == e:
		sym, _ = c.res.SymbolOf(semantic.Unparen(p.Child("left")))
	}
	if sym == nil {
		return guard{}, false
	}
	return c.sweep(stmt, sym, isBool)
}

// sweep scans the statements after stmt in the same statement list for an
// if or assert whose condition checks sym directly. The first such check
// wins unless sym is written between stmt and it, or by its own condition;
// then the search moves on to later siblings.
func (c *Classifier) sweep(stmt *syntax.Node, sym *semantic.Symbol, isBool bool) (guard, bool) {
	parent := stmt.Parent
	start := stmt.Index()
	if parent == nil || start < 0 {
		return guard{}, false
	}

	siblings := parent.Children
	for i := start + 1; i < len(siblings); i++ {
		cond := c.checkCondition(siblings[i])
		if cond == nil {
			continue
		}
		g, ok := c.checkOf(cond, sym, isBool)
		if !ok {
			continue
		}
		if c.writtenBetween(siblings[start+1:i], sym) || c.res.WrittenInside(cond, sym) {
			continue
		}
		return g, true
	}
	return guard{}, false
}

// checkCondition returns the condition of an if statement or of an assert
// expression statement.
func (c *Classifier) checkCondition(s *syntax.Node) *syntax.Node {
	switch s.Kind {
	case syntax.KindIf:
		return s.Child("condition")
	case syntax.KindExpressionStatement:
		if inv := s.FirstChild(syntax.KindInvocation); inv != nil && c.lib.IsAssert(inv) {
			return c.lib.AssertCondition(inv)
		}
	}
	return nil
}

// checkOf finds the first reference to sym in cond that cond checks
// directly.
func (c *Classifier) checkOf(cond *syntax.Node, sym *semantic.Symbol, isBool bool) (guard, bool) {
	for _, ref := range references(cond) {
		s, ok := c.res.SymbolOf(ref)
		if !ok || !s.Same(sym) {
			continue
		}
		if g, ok := c.guardOf(ref, isBool); ok {
			return g, true
		}
	}
	return guard{}, false
}

func (c *Classifier) writtenBetween(stmts []*syntax.Node, sym *semantic.Symbol) bool {
	for _, s := range stmts {
		if c.res.WrittenInside(s, sym) {
			return true
		}
	}
	return false
}

// climb walks up from a call through the wrappers that carry its result:
// parentheses and member accesses on it, and an assignment of it when the
// assigned value is then compared.
func climb(e *syntax.Node) *syntax.Node {
	e = unwrap(e)
	if p := e.Parent; p != nil && p.Kind == syntax.KindAssignment && assignedValue(p) == e {
		if outer := unwrap(p); isComparison(outer.Parent) {
			return outer
		}
	}
	return e
}

func unwrap(e *syntax.Node) *syntax.Node {
	for p := e.Parent; p != nil; p = e.Parent {
		switch {
		case p.Kind == syntax.KindParenthesized:
		case p.Is(syntax.KindMemberAccess, syntax.KindConditionalAccess) && p.Children[0] == e:
		default:
			return e
		}
		e = p
	}
	return e
}

func isComparison(n *syntax.Node) bool {
	return n != nil && n.Kind == syntax.KindBinary && (n.Op == "==" || n.Op == "!=")
}

// chained reports whether call is the receiver or an argument of another
// call within stmt.
func chained(call, stmt *syntax.Node) bool {
	for a := call.Parent; a != nil && a != stmt; a = a.Parent {
		if a.Is(syntax.KindInvocation, syntax.KindObjectCreation) {
			return true
		}
	}
	return false
}

// conditionHolds reports whether e lies in the condition of n.
func conditionHolds(n, e *syntax.Node) bool {
	cond := n.Child("condition")
	return cond != nil && (cond == e || cond.Encloses(e))
}

func assignedValue(assign *syntax.Node) *syntax.Node {
	if v := assign.Child("right"); v != nil {
		return v
	}
	if len(assign.Children) > 1 {
		return assign.Children[len(assign.Children)-1]
	}
	return nil
}

// references returns the identifiers in n that name a variable, plus
// this-qualified member accesses, in source order.
func references(n *syntax.Node) []*syntax.Node {
	var refs []*syntax.Node
	syntax.Inspect(n, func(d *syntax.Node) bool {
		switch d.Kind {
		case syntax.KindMemberAccess:
			if len(d.Children) > 0 && d.Children[0].Kind == syntax.KindThis {
				refs = append(refs, d)
				return false
			}
		case syntax.KindIdentifier:
			if p := d.Parent; p != nil && p.Kind == syntax.KindMemberAccess && p.Children[0] != d {
				return true
			}
			refs = append(refs, d)
		}
		return true
	})
	return refs
}

func lastStatement(n *syntax.Node) *syntax.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i].Kind.IsStatement() {
			return n.Children[i]
		}
	}
	return nil
}

// blockText joins the text of the guard's bodies and spans their location.
func blockText(bodies []*syntax.Node) (string, finding.Location) {
	var text string
	var loc finding.Location
	for _, b := range bodies {
		if b == nil {
			continue
		}
		if text == "" {
			text = b.Text()
			loc = locationOf(b)
			continue
		}
		text += "\n" + b.Text()
		loc.EndLine = b.EndLine
	}
	return text, loc
}
