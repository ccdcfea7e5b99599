package syntax_test

import (
	"strings"
	"testing"

	"cslayout/internal/lexer"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

func toks(ids ...syntax.TokenID) []syntax.Element {
	out := make([]syntax.Element, len(ids))
	for i, id := range ids {
		out[i] = syntax.TokenElem(id)
	}
	return out
}

// buildCalls builds CompilationUnit{ExpressionStmt "a();", ExpressionStmt "b();"}
// by hand, the way the parser would.
func buildCalls(t *testing.T) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.cs", []byte("a();\n  b();\n")))
	all := lexer.New(file, lexer.Options{}).All()
	if len(all) != 9 {
		t.Fatalf("want 9 tokens, got %d", len(all))
	}

	b := syntax.NewBuilder(file, all)
	first := b.Make(syntax.ExpressionStmt, toks(0, 1, 2, 3))

	// отброшенная спекулятивная ветка
	mark := b.Mark()
	b.Make(syntax.Bad, toks(4))
	b.Reset(mark)

	second := b.Make(syntax.ExpressionStmt, toks(4, 5, 6, 7))
	root := b.Make(syntax.CompilationUnit, []syntax.Element{
		syntax.NodeElem(first), syntax.NodeElem(second), syntax.TokenElem(8),
	})
	return b.Finish(root)
}

func TestBuilderAndNavigation(t *testing.T) {
	tree := buildCalls(t)
	if tree.NodeCount() != 3 {
		t.Fatalf("Reset must drop speculative nodes, count=%d", tree.NodeCount())
	}

	stmts := tree.Children(tree.Root)
	if len(stmts) != 2 {
		t.Fatalf("children: %v", stmts)
	}
	first, second := stmts[0], stmts[1]
	if tree.Parent(first) != tree.Root || tree.Parent(tree.Root) != syntax.NoNodeID {
		t.Fatalf("parent links are wrong")
	}
	if prev, next := tree.Siblings(first); prev != syntax.NoNodeID || next != second {
		t.Fatalf("Siblings(first) = %d, %d", prev, next)
	}
	if prev, next := tree.Siblings(second); prev != first || next != syntax.NoNodeID {
		t.Fatalf("Siblings(second) = %d, %d", prev, next)
	}

	if got := tree.Text(second); got != "b();" {
		t.Fatalf("Text = %q", got)
	}
	n := tree.Node(second)
	if tree.Line(n.First) != 2 || tree.Column(n.First, 4) != 3 || tree.LineIndentColumn(n.Last, 4) != 3 {
		t.Fatalf("position of b: line %d col %d", tree.Line(n.First), tree.Column(n.First, 4))
	}
	if tree.SameLine(tree.Node(first).Last, n.First) {
		t.Fatalf("statements are on different lines")
	}
	if semi, ok := tree.ChildToken(second, token.Semicolon); !ok || semi != 7 {
		t.Fatalf("ChildToken = %d, %v", semi, ok)
	}
	if _, ok := tree.ChildToken(tree.Root, token.Semicolon); ok {
		t.Fatalf("ChildToken must not look into grandchildren")
	}
}

func TestWalkOrderAndSkip(t *testing.T) {
	tree := buildCalls(t)

	var kinds []string
	tree.Walk(tree.Root, func(id syntax.NodeID) bool {
		kinds = append(kinds, tree.Kind(id).String())
		return true
	})
	if got := strings.Join(kinds, ","); got != "CompilationUnit,ExpressionStmt,ExpressionStmt" {
		t.Fatalf("pre-order walk: %s", got)
	}

	visited := 0
	tree.Walk(tree.Root, func(syntax.NodeID) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("returning false must skip children, visited %d", visited)
	}
	tree.Walk(syntax.NoNodeID, func(syntax.NodeID) bool {
		t.Fatalf("walk of an invalid id must not call fn")
		return true
	})
}

func TestDump(t *testing.T) {
	tree := buildCalls(t)
	want := "CompilationUnit \"\"\n" +
		"  ExpressionStmt \"a ( ) ;\"\n" +
		"  ExpressionStmt \"b ( ) ;\"\n"
	if got := tree.Dump(tree.Root); got != want {
		t.Fatalf("Dump:\n%s\nwant:\n%s", got, want)
	}
}
