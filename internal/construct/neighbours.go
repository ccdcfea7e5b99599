package construct

import "cslayout/internal/syntax"

// isListContainer — узлы, дети которых идут списком операторов/директив.
func isListContainer(k syntax.Kind) bool {
	switch k {
	case syntax.Block, syntax.SwitchSection, syntax.CompilationUnit,
		syntax.NamespaceDecl, syntax.FileNamespaceDecl:
		return true
	}
	return false
}

func isListItem(k syntax.Kind) bool {
	return k.IsStatement() || k.IsMember() || k == syntax.UsingDirective ||
		k == syntax.ExternAlias || k == syntax.Bad
}

// Neighbours returns the statements (or directives, or members) directly
// before and after id in its enclosing list. Embedded statements, such as the
// unbraced body of an if, have none. A case label or namespace name in front
// of the first item is not a neighbour.
func Neighbours(t *syntax.Tree, id syntax.NodeID) (prev, next syntax.NodeID) {
	parent := t.Parent(id)
	if !isListContainer(t.Kind(parent)) {
		return syntax.NoNodeID, syntax.NoNodeID
	}
	prev, next = t.Siblings(id)
	if !isListItem(t.Kind(prev)) {
		prev = syntax.NoNodeID
	}
	if !isListItem(t.Kind(next)) {
		next = syntax.NoNodeID
	}
	return prev, next
}
