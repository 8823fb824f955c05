package predicate

import (
	"regexp"
	"strings"

	"catchminer/internal/semantic"
	"catchminer/internal/syntax"
)

var throwName = regexp.MustCompile(`(?i)Throw.*Exception`)

// Library evaluates predicates under one configuration. A nil resolver makes
// every predicate purely textual.
type Library struct {
	cfg Config
	res semantic.Resolver
}

// New creates a predicate library.
func New(cfg Config, res semantic.Resolver) *Library {
	return &Library{cfg: cfg.Normalize(), res: res}
}

// Config returns the library's configuration.
func (l *Library) Config() Config {
	return l.cfg
}

// Resolver returns the library's resolver, which may be nil.
func (l *Library) Resolver() semantic.Resolver {
	return l.res
}

// CallNames returns the textual and, when resolvable, the resolved name of a
// call, both normalised.
func (l *Library) CallNames(call *syntax.Node) (textual, resolved string) {
	if fn := semantic.Callee(call); fn != nil {
		textual = syntax.NormalizeName(fn.Text())
	}
	if l.res != nil {
		if m, err := l.res.ResolveCall(call); err == nil && m != nil {
			resolved = syntax.NormalizeName(m.Symbol)
		}
	}
	return textual, resolved
}

// IsLoggingCall reports whether call invokes a logging method. Either name
// being denied rejects the call; otherwise either name being allowed accepts
// it.
func (l *Library) IsLoggingCall(call *syntax.Node) bool {
	if call == nil || call.Kind != syntax.KindInvocation {
		return false
	}
	textual, resolved := l.CallNames(call)
	names := []string{textual, resolved}
	for _, name := range names {
		if name != "" && l.denied(name) {
			return false
		}
	}
	for _, name := range names {
		if name != "" && l.allowed(name) {
			return true
		}
	}
	return false
}

func (l *Library) denied(name string) bool {
	for _, d := range l.cfg.NotLogMethods {
		if d == "" {
			break
		}
		if strings.Contains(name, d) {
			return true
		}
	}
	return false
}

func (l *Library) allowed(name string) bool {
	for _, a := range l.cfg.LogMethods {
		if strings.Contains(name, a) {
			return true
		}
	}
	return false
}

// IsAssert reports whether call is a logging call whose name mentions Assert.
func (l *Library) IsAssert(call *syntax.Node) bool {
	if !l.IsLoggingCall(call) {
		return false
	}
	textual, resolved := l.CallNames(call)
	return strings.Contains(textual, "Assert") || strings.Contains(resolved, "Assert")
}

// AssertCondition returns the condition argument of an assert call.
func (l *Library) AssertCondition(call *syntax.Node) *syntax.Node {
	idx := l.cfg.AssertConditionIndex
	args := semantic.Arguments(call)
	if idx < 0 || idx >= len(args) {
		return nil
	}
	return semantic.ArgumentExpression(args[idx])
}

// LogLevel returns the severity argument of a logging call, or "".
func (l *Library) LogLevel(call *syntax.Node) string {
	idx := l.cfg.LogLevelIndex
	args := semantic.Arguments(call)
	if idx < 0 || idx >= len(args) {
		return ""
	}
	return syntax.CompactSpace(semantic.ArgumentExpression(args[idx]).Text())
}

// FindLogging returns the first logging call in n's subtree, n included.
func (l *Library) FindLogging(n *syntax.Node) *syntax.Node {
	return syntax.Find(n, l.IsLoggingCall)
}

// IsThrow reports whether n is a throw, or whether the first call in its
// subtree is named like a throw helper (ThrowIfNullException, ...).
func (l *Library) IsThrow(n *syntax.Node) bool {
	if n == nil {
		return false
	}
	if n.Is(syntax.KindThrow, syntax.KindThrowExpression) {
		return true
	}
	return l.isThrowCall(syntax.FindKind(n, syntax.KindInvocation))
}

func (l *Library) isThrowCall(call *syntax.Node) bool {
	if call == nil || call.Kind != syntax.KindInvocation {
		return false
	}
	textual, resolved := l.CallNames(call)
	return throwName.MatchString(textual) || (resolved != "" && throwName.MatchString(resolved))
}

// FindThrow returns the first throw statement, throw expression or throw
// helper call in n's subtree.
func (l *Library) FindThrow(n *syntax.Node) *syntax.Node {
	return syntax.Find(n, func(d *syntax.Node) bool {
		return d.Is(syntax.KindThrow, syntax.KindThrowExpression) || l.isThrowCall(d)
	})
}

// FindFlagAssignment returns the first plain assignment in n's subtree whose
// right-hand side is a member access, a boolean literal or null.
func (l *Library) FindFlagAssignment(n *syntax.Node) *syntax.Node {
	return syntax.Find(n, isFlagAssignment)
}

// IsFlagAssignment reports whether n is or contains a flag assignment.
func (l *Library) IsFlagAssignment(n *syntax.Node) bool {
	return l.FindFlagAssignment(n) != nil
}

func isFlagAssignment(n *syntax.Node) bool {
	if n.Kind != syntax.KindAssignment || n.Op != "=" {
		return false
	}
	rhs := n.Child("right")
	if rhs == nil && len(n.Children) > 1 {
		rhs = n.Children[len(n.Children)-1]
	}
	return semantic.Unparen(rhs).Is(syntax.KindMemberAccess, syntax.KindBooleanLiteral, syntax.KindNullLiteral)
}

// FindReturn returns the first return statement in n's subtree.
func (l *Library) FindReturn(n *syntax.Node) *syntax.Node {
	return syntax.FindKind(n, syntax.KindReturn)
}

// IsRecoverStatement reports whether stmt inspects a local of an exception
// type without logging, setting a flag or throwing.
func (l *Library) IsRecoverStatement(stmt *syntax.Node) bool {
	if l.res == nil || l.FindLogging(stmt) != nil || l.IsFlagAssignment(stmt) || l.IsThrow(stmt) {
		return false
	}
	for _, id := range syntax.Descendants(stmt, syntax.KindIdentifier) {
		sym, ok := l.res.SymbolOf(id)
		if ok && sym.Kind == semantic.SymbolLocal && strings.Contains(sym.Type, "Exception") {
			return true
		}
	}
	return false
}

// FindRecover returns a nested try statement in n's subtree, or failing that
// the first non-block statement in it that is a recover statement.
func (l *Library) FindRecover(n *syntax.Node) *syntax.Node {
	if try := syntax.FindKind(n, syntax.KindTry); try != nil {
		return try
	}
	return syntax.Find(n, func(s *syntax.Node) bool {
		return s.Kind.IsStatement() && s.Kind != syntax.KindBlock && l.IsRecoverStatement(s)
	})
}

// FindOtherOperation returns the first leaf statement below n that neither
// logs, recovers, returns, sets a flag nor throws. A statement without
// nested statements is its own leaf.
func (l *Library) FindOtherOperation(n *syntax.Node) *syntax.Node {
	leaves := syntax.LeafStatements(n)
	if len(leaves) == 0 && n.Kind.IsStatement() && n.Kind != syntax.KindBlock {
		leaves = []*syntax.Node{n}
	}
	for _, s := range leaves {
		if s.Kind == syntax.KindReturn || l.FindLogging(s) != nil ||
			l.IsRecoverStatement(s) || l.IsFlagAssignment(s) || l.IsThrow(s) {
			continue
		}
		return s
	}
	return nil
}

// IsEmptyBlock reports whether a block, or the body of a catch clause, has
// no descendants other than comments. Any other statement, the empty
// statement included, is not an empty block.
func IsEmptyBlock(n *syntax.Node) bool {
	if n == nil {
		return true
	}
	if n.Kind == syntax.KindCatch {
		if body := CatchBody(n); body != nil {
			n = body
		}
	}
	if n.Kind != syntax.KindBlock && n.Kind != syntax.KindCatch {
		return false
	}
	return syntax.IsEmpty(n)
}

// CatchBody returns the block of a catch clause.
func CatchBody(catch *syntax.Node) *syntax.Node {
	if b := catch.Child("body"); b != nil {
		return b
	}
	return catch.FirstChild(syntax.KindBlock)
}
