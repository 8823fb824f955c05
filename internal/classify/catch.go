package classify

import (
	"catchminer/internal/finding"
	"catchminer/internal/predicate"
	"catchminer/internal/syntax"
)

// Catch classifies one catch clause. The text context is gathered from the
// protected try block, not from the handler.
func (c *Classifier) Catch(catch *syntax.Node) *finding.Finding {
	body := predicate.CatchBody(catch)
	fd := &finding.Finding{
		Kind:     finding.KindCatch,
		Key:      c.exceptionType(catch),
		Location: locationOf(catch),
		Method:   c.methodName(catch),
	}
	if body != nil {
		fd.Block = body.Text()
		fd.BlockLoc = locationOf(body)
	}
	c.classifyBodies(fd, body)

	if try := catch.Parent; try != nil && try.Kind == syntax.KindTry {
		tryBody := try.Child("body")
		if tryBody == nil {
			tryBody = try.FirstChild(syntax.KindBlock)
		}
		fd.Context = c.context(tryBody)
	} else {
		fd.Context = finding.NewTextContext()
	}
	return fd
}

// exceptionType resolves the declared exception type of a catch clause,
// falling back to its source text and then to a sentinel.
func (c *Classifier) exceptionType(catch *syntax.Node) string {
	decl := catch.FirstChild(syntax.KindCatchDeclaration)
	if decl == nil {
		return finding.UndeclaredException
	}
	typ := decl.Child("type")
	if typ == nil && len(decl.Children) > 0 {
		typ = decl.Children[0]
	}
	if typ == nil {
		return finding.Unresolved
	}
	if c.res != nil {
		if full, ok := c.res.TypeName(typ); ok && full != "" {
			return full
		}
	}
	if name := syntax.NormalizeName(typ.Text()); name != "" {
		return name
	}
	return finding.Unresolved
}
