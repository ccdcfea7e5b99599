package syntax

import (
	"cslayout/internal/source"
	"cslayout/internal/token"
)

// Tree is the read-only result of parsing one file. Tokens include the final
// EOF token, which carries the trivia at the end of the file.
type Tree struct {
	File   *source.File
	Tokens []token.Token
	Root   NodeID
	nodes  *Arena[Node]
}

// Node returns the node or nil for NoNodeID.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// NodeCount is the number of nodes, including speculative leftovers never
// reachable from Root.
func (t *Tree) NodeCount() int { return int(t.nodes.Len()) }

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Node(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

func (t *Tree) Token(id TokenID) *token.Token {
	return &t.Tokens[id]
}

// Prev returns the token before id and false at the start of the file.
func (t *Tree) Prev(id TokenID) (TokenID, bool) {
	if id == 0 {
		return 0, false
	}
	return id - 1, true
}

// Next returns the token after id and false at EOF.
func (t *Tree) Next(id TokenID) (TokenID, bool) {
	if int(id)+1 >= len(t.Tokens) {
		return id, false
	}
	return id + 1, true
}

// Children returns the child nodes of id, skipping tokens.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	out := make([]NodeID, 0, len(n.Children))
	for _, e := range n.Children {
		if e.IsNode() {
			out = append(out, e.Node)
		}
	}
	return out
}

// ChildOfKind returns the first child node of the given kind.
func (t *Tree) ChildOfKind(id NodeID, kind Kind) NodeID {
	n := t.Node(id)
	if n == nil {
		return NoNodeID
	}
	for _, e := range n.Children {
		if e.IsNode() && t.Kind(e.Node) == kind {
			return e.Node
		}
	}
	return NoNodeID
}

// ChildToken returns the first direct child token of the given kind.
func (t *Tree) ChildToken(id NodeID, kind token.Kind) (TokenID, bool) {
	n := t.Node(id)
	if n == nil {
		return 0, false
	}
	for _, e := range n.Children {
		if !e.IsNode() && t.Tokens[e.Token].Kind == kind {
			return e.Token, true
		}
	}
	return 0, false
}

// ChildTokens returns every direct child token of the given kind.
func (t *Tree) ChildTokens(id NodeID, kind token.Kind) []TokenID {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	var out []TokenID
	for _, e := range n.Children {
		if !e.IsNode() && t.Tokens[e.Token].Kind == kind {
			out = append(out, e.Token)
		}
	}
	return out
}

// Siblings returns the previous and next node siblings of id inside its parent.
func (t *Tree) Siblings(id NodeID) (prev, next NodeID) {
	parent := t.Node(t.Parent(id))
	if parent == nil {
		return NoNodeID, NoNodeID
	}
	found := false
	for _, e := range parent.Children {
		if !e.IsNode() {
			continue
		}
		if found {
			return prev, e.Node
		}
		if e.Node == id {
			found = true
			continue
		}
		prev = e.Node
	}
	if !found {
		return NoNodeID, NoNodeID
	}
	return prev, NoNodeID
}

// Span covers the tokens of id without their trivia.
func (t *Tree) Span(id NodeID) source.Span {
	n := t.Node(id)
	if n == nil {
		return source.Span{}
	}
	return t.Tokens[n.First].Span.Cover(t.Tokens[n.Last].Span)
}

// Line returns the 1-based line of the token start.
func (t *Tree) Line(id TokenID) uint32 {
	return t.File.LineCol(t.Tokens[id].Span.Start).Line
}

// Column returns the 1-based visual column of the token start.
func (t *Tree) Column(id TokenID, tabSize int) int {
	return t.File.VisualColumn(t.Tokens[id].Span.Start, tabSize)
}

// LineIndentColumn returns the visual column of the first non-blank character
// on the line of id.
func (t *Tree) LineIndentColumn(id TokenID, tabSize int) int {
	line := t.Line(id)
	start := t.File.LineStart(line)
	indent := t.File.Indentation(line)
	return t.File.VisualColumn(start+uint32(len(indent)), tabSize)
}

// SameLine reports whether both tokens start on the same line.
func (t *Tree) SameLine(a, b TokenID) bool {
	return t.Line(a) == t.Line(b)
}

// Text returns the source text of id, from its first to its last token.
func (t *Tree) Text(id NodeID) string {
	sp := t.Span(id)
	return string(t.File.Content[sp.Start:sp.End])
}
