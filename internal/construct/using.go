package construct

import (
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// UsingGroup returns the first identifier segment of a using directive's
// name and whether the directive declares an alias. using static and
// global using compare by their name.
func UsingGroup(t *syntax.Tree, id syntax.NodeID) (segment string, alias bool) {
	if t.Kind(id) != syntax.UsingDirective {
		return "", false
	}
	_, alias = t.ChildToken(id, token.Assign)
	ch := t.Children(id)
	if len(ch) == 0 {
		return "", alias
	}
	name := ch[len(ch)-1]
	return t.Token(t.Node(name).First).Text, alias
}

// SameUsingGroup reports whether two consecutive using directives may stay
// without a blank line between them.
func SameUsingGroup(t *syntax.Tree, a, b syntax.NodeID) bool {
	segA, aliasA := UsingGroup(t, a)
	segB, aliasB := UsingGroup(t, b)
	if aliasA || aliasB || segA == "" {
		return false
	}
	return segA == segB
}
