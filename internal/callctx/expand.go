package callctx

import (
	"fmt"
	"log/slog"
	"strings"

	"catchminer/internal/finding"
	"catchminer/internal/predicate"
	"catchminer/internal/semantic"
	"catchminer/internal/syntax"
)

// Options bound the expansion.
type Options struct {
	// MaxDepth is the deepest level a method body is expanded at; the seed
	// region is level 0.
	MaxDepth int
	// MaxNames caps the distinct method names per finding; 0 disables it.
	MaxNames int
	// LibraryPrefixes name namespaces whose methods are never expanded.
	LibraryPrefixes []string
}

// DefaultOptions returns the standard bounds.
func DefaultOptions() Options {
	return Options{MaxDepth: 3, MaxNames: 50, LibraryPrefixes: []string{"System"}}
}

// Expander walks the call graph from a region. It holds no per-walk state
// and is safe for concurrent use.
type Expander struct {
	idx    *Index
	lib    *predicate.Library
	opts   Options
	logger *slog.Logger
}

// NewExpander creates an expander over a corpus index.
func NewExpander(idx *Index, lib *predicate.Library, opts Options, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Expander{idx: idx, lib: lib, opts: opts, logger: logger}
}

type region struct {
	node  *syntax.Node
	depth int
}

// Expand collects the text context reachable from seed.
//
// Calls directly in a region, outside nested try statements and other than
// logging calls, are counted by name. The first time a name is seen, the
// callee's body is queued one level deeper when that level is within
// MaxDepth, the callee is declared in the corpus, lies outside the library
// prefixes and has not been queued before. The walk stops before a new
// name would exceed MaxNames.
func (e *Expander) Expand(seed *syntax.Node) finding.TextContext {
	ctx := finding.NewTextContext()
	if seed == nil {
		return ctx
	}

	queued := map[*syntax.Node]bool{seed.Origin(): true}
	queue := []region{{node: seed, depth: 0}}
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		collectWords(r.node, ctx.Words)

		for _, call := range syntax.CallsSkippingTry(r.node) {
			name, m, skip := e.visit(call)
			if skip || name == "" {
				continue
			}
			if ctx.Methods.Count(name) > 0 {
				ctx.Methods.Add(name)
				continue
			}
			if e.opts.MaxNames > 0 && ctx.Methods.Len() >= e.opts.MaxNames {
				return ctx
			}
			ctx.Methods.Add(name)

			next := r.depth + 1
			if next > e.opts.MaxDepth || m == nil || e.isLibrary(name) {
				continue
			}
			body, ok := e.idx.Body(m.Symbol)
			if !ok || queued[body] {
				continue
			}
			queued[body] = true
			queue = append(queue, region{node: body, depth: next})
		}
	}
	return ctx
}

// visit names a call and resolves its target. Resolution failures, panics
// included, fall back to the call text.
func (e *Expander) visit(call *syntax.Node) (name string, m *semantic.Method, skip bool) {
	textual := ""
	if fn := semantic.Callee(call); fn != nil {
		textual = syntax.NormalizeName(fn.Text())
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("Call resolution failed",
				"call", textual,
				"location", location(call),
				"error", fmt.Sprint(r),
			)
			name, m, skip = textual, nil, false
		}
	}()

	if e.lib.IsLoggingCall(call) {
		return "", nil, true
	}
	res := e.lib.Resolver()
	if res == nil {
		return textual, nil, false
	}
	m, err := res.ResolveCall(call)
	if err != nil {
		e.logger.Debug("Call not resolved",
			"call", textual,
			"location", location(call),
			"error", err.Error(),
		)
		return textual, nil, false
	}
	if m == nil {
		return textual, nil, false
	}
	if resolved := syntax.NormalizeName(m.Symbol); resolved != "" {
		return resolved, m, false
	}
	return textual, m, false
}

func (e *Expander) isLibrary(name string) bool {
	for _, p := range e.opts.LibraryPrefixes {
		if p != "" && (name == p || strings.HasPrefix(name, p+".")) {
			return true
		}
	}
	return false
}

// collectWords counts variable references and comment words in n, outside
// nested try statements. Identifiers naming a called method are skipped.
func collectWords(n *syntax.Node, words *finding.Counter) {
	syntax.Inspect(n, func(d *syntax.Node) bool {
		if d != n && d.Kind == syntax.KindTry {
			return false
		}
		switch d.Kind {
		case syntax.KindComment:
			for _, w := range strings.Fields(syntax.CleanComment(d.Text())) {
				words.Add(w)
			}
		case syntax.KindIdentifier:
			if !isCalleeName(d) {
				words.Add(d.Text())
			}
		}
		return true
	})
}

// isCalleeName reports whether id is the method name of an invocation.
func isCalleeName(id *syntax.Node) bool {
	p := id.Parent
	if p != nil && p.Kind == syntax.KindGenericName {
		id, p = p, p.Parent
	}
	if p == nil {
		return false
	}
	if p.Kind == syntax.KindInvocation {
		return semantic.Callee(p) == id
	}
	if p.Kind == syntax.KindMemberAccess && p.Children[len(p.Children)-1] == id {
		return p.Parent != nil && p.Parent.Kind == syntax.KindInvocation && semantic.Callee(p.Parent) == p
	}
	return false
}

func location(n *syntax.Node) string {
	if f := n.File(); f != nil {
		return fmt.Sprintf("%s:%d", f.Path, n.Line)
	}
	return fmt.Sprintf("?:%d", n.Line)
}
