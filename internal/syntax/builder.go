package syntax

import (
	"cslayout/internal/source"
	"cslayout/internal/token"
)

// Builder assembles a Tree bottom-up. Nodes are created after their
// children; parent links are filled in once by Finish.
type Builder struct {
	file   *source.File
	tokens []token.Token
	nodes  *Arena[Node]
}

func NewBuilder(file *source.File, tokens []token.Token) *Builder {
	return &Builder{
		file:   file,
		tokens: tokens,
		nodes:  NewArena[Node](uint(len(tokens)/2 + 1)),
	}
}

// Make creates a node from its children in source order. children must not
// be empty; childless nodes go through MakeAt.
func (b *Builder) Make(kind Kind, children []Element) NodeID {
	n := Node{Kind: kind, Children: children}
	first := true
	for _, e := range children {
		lo, hi := b.bounds(e)
		if first {
			n.First = lo
			first = false
		}
		n.Last = hi
	}
	return NodeID(b.nodes.Allocate(n))
}

// MakeAt creates a childless node positioned at tok (used for empty lists).
func (b *Builder) MakeAt(kind Kind, tok TokenID) NodeID {
	return NodeID(b.nodes.Allocate(Node{Kind: kind, First: tok, Last: tok}))
}

func (b *Builder) bounds(e Element) (TokenID, TokenID) {
	if e.IsNode() {
		n := b.nodes.Get(uint32(e.Node))
		return n.First, n.Last
	}
	return e.Token, e.Token
}

// Mark and Reset let the parser discard nodes built during a failed speculative parse.
func (b *Builder) Mark() uint32 { return b.nodes.Len() }

func (b *Builder) Reset(mark uint32) { b.nodes.Truncate(mark) }

// Finish sets root and computes every parent link reachable from it.
func (b *Builder) Finish(root NodeID) *Tree {
	t := &Tree{File: b.file, Tokens: b.tokens, Root: root, nodes: b.nodes}
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range t.Node(id).Children {
			if e.IsNode() {
				t.Node(e.Node).Parent = id
				stack = append(stack, e.Node)
			}
		}
	}
	return t
}

// NodeAt exposes a node before Finish, for lookahead decisions.
func (b *Builder) NodeAt(id NodeID) *Node { return b.nodes.Get(uint32(id)) }

func (b *Builder) NodeKind(id NodeID) Kind {
	if n := b.NodeAt(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}
