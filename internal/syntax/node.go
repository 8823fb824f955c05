// Package syntax provides the language-neutral syntax tree that the
// classifiers, the resolver and the context expander operate on.
//
// A front end (see internal/frontend) parses source text and builds a File
// whose nodes carry a closed Kind, the grammar's own node type, byte and line
// positions, and the field name under which the node hangs off its parent.
// Only named grammar nodes are kept; operator tokens are folded into Op.
package syntax

import "strings"

// File is one parsed source file.
type File struct {
	// Path is slash separated and relative to the analysis root.
	Path   string
	Source []byte
	Root   *Node
}

// NewFile creates a file and links every node below root to it.
func NewFile(path string, source []byte, root *Node) *File {
	f := &File{Path: path, Source: source, Root: root}
	if root != nil {
		root.link(nil, f)
	}
	return f
}

// Lines returns the number of lines in the file.
func (f *File) Lines() int {
	if len(f.Source) == 0 {
		return 0
	}
	n := strings.Count(string(f.Source), "\n")
	if f.Source[len(f.Source)-1] != '\n' {
		n++
	}
	return n
}

// Node is a named syntax node.
type Node struct {
	Kind Kind
	// Type is the grammar's node type, e.g. "invocation_expression".
	Type string
	// Field is the grammar field name this node occupies in its parent.
	Field string
	// Op is the operator token of assignments, binary and unary expressions,
	// and the ref/out/in modifier of arguments.
	Op string

	Start, End    int // byte offsets
	Line, EndLine int // 1-based
	Column        int // 0-based byte column of Start

	Parent   *Node
	Children []*Node

	file   *File
	origin *Node
}

func (n *Node) link(parent *Node, f *File) {
	n.Parent = parent
	n.file = f
	for _, c := range n.Children {
		c.link(n, f)
	}
}

// File returns the file the node belongs to.
func (n *Node) File() *File {
	return n.file
}

// Origin returns the node this one was copied from by WithoutTry, or the node
// itself when it is not a copy.
func (n *Node) Origin() *Node {
	if n.origin != nil {
		return n.origin
	}
	return n
}

// Text returns the source text spanned by the node.
func (n *Node) Text() string {
	if n == nil || n.file == nil || n.End > len(n.file.Source) || n.Start > n.End {
		return ""
	}
	return string(n.file.Source[n.Start:n.End])
}

// LOC returns the number of source lines the node spans.
func (n *Node) LOC() int {
	if n == nil {
		return 0
	}
	return n.EndLine - n.Line + 1
}

// Is reports whether the node has one of the given kinds.
func (n *Node) Is(kinds ...Kind) bool {
	if n == nil {
		return false
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// Child returns the child stored under the given field name.
func (n *Node) Child(field string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// FirstChild returns the first child of one of the given kinds.
func (n *Node) FirstChild(kinds ...Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Is(kinds...) {
			return c
		}
	}
	return nil
}

// ChildrenOf returns the children of one of the given kinds, in order.
func (n *Node) ChildrenOf(kinds ...Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Is(kinds...) {
			out = append(out, c)
		}
	}
	return out
}

// Ancestor returns the nearest proper ancestor of one of the given kinds.
func (n *Node) Ancestor(kinds ...Kind) *Node {
	if n == nil {
		return nil
	}
	for a := n.Parent; a != nil; a = a.Parent {
		if a.Is(kinds...) {
			return a
		}
	}
	return nil
}

// Contains reports whether o's span lies within n's span in the same file.
func (n *Node) Contains(o *Node) bool {
	if n == nil || o == nil || n.file != o.file {
		return false
	}
	return o.Start >= n.Start && o.End <= n.End
}

// Encloses reports whether n is a proper ancestor of o.
func (n *Node) Encloses(o *Node) bool {
	if n == nil || o == nil {
		return false
	}
	n = n.Origin()
	for a := o.Origin().Parent; a != nil; a = a.Parent {
		if a == n {
			return true
		}
	}
	return false
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}
