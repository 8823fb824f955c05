package syntax

// WithoutTry returns a copy of the tree rooted at n from which every nested
// try statement has been removed, so that nested exception handling is not
// attributed to the enclosing body. Copies keep the positions of the
// originals and report them through Origin. n itself is always kept.
func WithoutTry(n *Node) *Node {
	if n == nil {
		return nil
	}
	return prune(n, nil)
}

func prune(n, parent *Node) *Node {
	cp := *n
	cp.Parent = parent
	cp.origin = n.Origin()
	cp.Children = make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind == KindTry {
			continue
		}
		cp.Children = append(cp.Children, prune(c, &cp))
	}
	return &cp
}

// CallsSkippingTry returns the invocations under n in source order without
// descending into nested try statements.
func CallsSkippingTry(n *Node) []*Node {
	var calls []*Node
	Inspect(n, func(d *Node) bool {
		if d != n && d.Kind == KindTry {
			return false
		}
		if d.Kind == KindInvocation {
			calls = append(calls, d)
		}
		return true
	})
	return calls
}
