package syntax

// Inspect traverses the tree rooted at n in source order, calling f for n and
// every descendant. When f returns false the node's children are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children {
		Inspect(c, f)
	}
}

// Descendants returns the proper descendants of n in source order, keeping
// only the given kinds when any are passed.
func Descendants(n *Node, kinds ...Kind) []*Node {
	var out []*Node
	Inspect(n, func(d *Node) bool {
		if d != n && (len(kinds) == 0 || d.Is(kinds...)) {
			out = append(out, d)
		}
		return true
	})
	return out
}

// Find returns the first node in n's subtree, n included, for which match
// returns true.
func Find(n *Node, match func(*Node) bool) *Node {
	var found *Node
	Inspect(n, func(d *Node) bool {
		if found != nil {
			return false
		}
		if match(d) {
			found = d
			return false
		}
		return true
	})
	return found
}

// FindKind returns the first node of one of the given kinds in n's subtree,
// n included.
func FindKind(n *Node, kinds ...Kind) *Node {
	return Find(n, func(d *Node) bool { return d.Is(kinds...) })
}

// Statement returns the innermost statement containing n, n included.
func Statement(n *Node) *Node {
	for s := n; s != nil; s = s.Parent {
		if s.Kind.IsStatement() {
			return s
		}
	}
	return nil
}

// EnclosingMember returns the nearest method, constructor or other member
// declaration containing n.
func EnclosingMember(n *Node) *Node {
	return n.Ancestor(KindMethod, KindConstructor, KindOtherMember)
}

// LeafStatements returns the statements under n that contain no other
// statement, excluding blocks, in source order.
func LeafStatements(n *Node) []*Node {
	var out []*Node
	Inspect(n, func(d *Node) bool {
		if d == n || !d.Kind.IsStatement() || d.Kind == KindBlock {
			return true
		}
		if !hasStatement(d) {
			out = append(out, d)
		}
		return true
	})
	return out
}

func hasStatement(n *Node) bool {
	for _, c := range n.Children {
		if c.Kind.IsStatement() || hasStatement(c) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether n has no descendants other than comments.
func IsEmpty(n *Node) bool {
	for _, c := range n.Children {
		if c.Kind != KindComment {
			return false
		}
	}
	return true
}
