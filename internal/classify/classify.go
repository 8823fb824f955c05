// Package classify turns catch clauses and guarded calls into findings.
//
// Both kinds of construct end in a handling body, the catch block or the
// body of the guard that inspects a call's result, and both bodies are
// classified by the same predicates.
package classify

import (
	"fmt"
	"log/slog"

	"catchminer/internal/callctx"
	"catchminer/internal/finding"
	"catchminer/internal/predicate"
	"catchminer/internal/semantic"
	"catchminer/internal/syntax"
)

// Classifier classifies the constructs of one corpus. It is safe for
// concurrent use across files.
type Classifier struct {
	lib    *predicate.Library
	res    semantic.Resolver
	exp    *callctx.Expander
	logger *slog.Logger
}

// New creates a classifier. A nil expander leaves the text context empty.
func New(lib *predicate.Library, exp *callctx.Expander, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Classifier{lib: lib, res: lib.Resolver(), exp: exp, logger: logger}
}

// CatchBlocks classifies every catch clause in f, in source order.
func (c *Classifier) CatchBlocks(f *syntax.File) []*finding.Finding {
	var out []*finding.Finding
	for _, catch := range syntax.Descendants(f.Root, syntax.KindCatch) {
		if fd := c.safely(catch, c.Catch); fd != nil {
			out = append(out, fd)
		}
	}
	return out
}

// GuardedCalls classifies every checked call in the method and constructor
// bodies of f, in source order. Calls whose result is never checked yield
// nothing.
func (c *Classifier) GuardedCalls(f *syntax.File) []*finding.Finding {
	var out []*finding.Finding
	for _, call := range syntax.Descendants(f.Root, syntax.KindInvocation) {
		if !syntax.EnclosingMember(call).Is(syntax.KindMethod, syntax.KindConstructor) {
			continue
		}
		if fd := c.safely(call, c.GuardedCall); fd != nil {
			out = append(out, fd)
		}
	}
	return out
}

// safely runs one construct's classification, turning a panic into a
// skipped construct.
func (c *Classifier) safely(n *syntax.Node, classify func(*syntax.Node) *finding.Finding) (fd *finding.Finding) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Construct skipped",
				"kind", n.Kind.String(),
				"location", location(n),
				"error", fmt.Sprint(r),
			)
			fd = nil
		}
	}()
	return classify(n)
}

// classifyBodies evaluates the handling operations of one or more bodies
// into fd. Operations hold when they hold in any body; the evidence comes
// from the first body showing it. Nested try statements are stripped before
// every check except recovery and emptiness. Empty holds exactly when no
// other operation does.
func (c *Classifier) classifyBodies(fd *finding.Finding, bodies ...*syntax.Node) {
	var ops finding.Operations
	evidence := make(map[finding.Operation]finding.Evidence)
	mark := func(op finding.Operation, n *syntax.Node) {
		if n == nil || ops.Has(op) {
			return
		}
		ops = ops.With(op)
		evidence[op] = finding.Evidence{Text: syntax.CompactSpace(n.Text()), Line: n.Line}
	}

	empty := true
	for _, body := range bodies {
		if body == nil {
			continue
		}
		pruned := syntax.WithoutTry(body)
		if log := c.lib.FindLogging(pruned); log != nil && !ops.Has(finding.Logged) {
			mark(finding.Logged, log)
			fd.LogLevel = c.lib.LogLevel(log)
		}
		mark(finding.Rethrown, c.lib.FindThrow(pruned))
		mark(finding.FlagSet, c.lib.FindFlagAssignment(pruned))
		mark(finding.Returned, c.lib.FindReturn(pruned))
		mark(finding.Recovered, c.lib.FindRecover(body))
		mark(finding.OtherOperation, c.lib.FindOtherOperation(pruned))
		empty = empty && predicate.IsEmptyBlock(body)
	}
	if empty || ops == 0 {
		ops = ops.With(finding.Empty)
	}

	if c.lib.Config().Mode == predicate.ModeFirst {
		first := ops.First()
		ops = finding.Operations(0).With(first)
		for op := range evidence {
			if op != first {
				delete(evidence, op)
			}
		}
		if first != finding.Logged {
			fd.LogLevel = ""
		}
	}

	fd.Ops = ops
	if len(evidence) > 0 {
		fd.Evidence = evidence
	}
}

// methodName names the method or constructor containing n: its resolved
// symbol, else its identifier. Other members give "".
func (c *Classifier) methodName(n *syntax.Node) string {
	member := syntax.EnclosingMember(n.Origin())
	if member == nil || member.Kind == syntax.KindOtherMember {
		return ""
	}
	if c.res != nil {
		if m, ok := c.res.DeclaredMethod(member); ok {
			if name := syntax.NormalizeName(m.Symbol); name != "" {
				return name
			}
		}
	}
	if name := member.Child("name"); name != nil {
		return name.Text()
	}
	return ""
}

func (c *Classifier) context(seed *syntax.Node) finding.TextContext {
	if c.exp == nil {
		return finding.NewTextContext()
	}
	return c.exp.Expand(seed)
}

func locationOf(n *syntax.Node) finding.Location {
	loc := finding.Location{Line: n.Line, EndLine: n.EndLine}
	if f := n.File(); f != nil {
		loc.File = f.Path
	}
	return loc
}

func location(n *syntax.Node) string {
	return locationOf(n).String()
}
