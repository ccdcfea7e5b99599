package syntax

import (
	"fmt"
	"strings"
)

// Walk visits id and its descendants in depth-first pre-order. Returning
// false from fn skips the children of that node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if !id.IsValid() {
		return
	}
	stack := []NodeID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		ch := t.Node(cur).Children
		for i := len(ch) - 1; i >= 0; i-- {
			if ch[i].IsNode() {
				stack = append(stack, ch[i].Node)
			}
		}
	}
}

// Dump renders the subtree of id as an indented outline with token texts,
// for tests and the `tokenize --tree` command.
func (t *Tree) Dump(id NodeID) string {
	var b strings.Builder
	t.dump(&b, id, 0)
	return b.String()
}

func (t *Tree) dump(b *strings.Builder, id NodeID, depth int) {
	n := t.Node(id)
	fmt.Fprintf(b, "%s%s", strings.Repeat("  ", depth), n.Kind)
	var toks []string
	for _, e := range n.Children {
		if !e.IsNode() {
			toks = append(toks, t.Tokens[e.Token].Text)
		}
	}
	if len(toks) > 0 {
		fmt.Fprintf(b, " %q", strings.Join(toks, " "))
	}
	b.WriteByte('\n')
	for _, e := range n.Children {
		if e.IsNode() {
			t.dump(b, e.Node, depth+1)
		}
	}
}
