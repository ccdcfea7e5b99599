package parser_test

import (
	"strings"
	"testing"

	"cslayout/internal/diag"
	"cslayout/internal/parser"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
)

func parse(t *testing.T, src string) (*syntax.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	bag := diag.NewBag(0)
	tree := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return tree, bag
}

func parseClean(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, bag := parse(t, src)
	if bag.Len() > 0 {
		for _, v := range bag.Items() {
			t.Errorf("unexpected diagnostic %s at %d: %s", v.RuleID, v.Primary.Start, v.Message)
		}
		t.Fatalf("tree:\n%s", tree.Dump(tree.Root))
	}
	return tree
}

func countKinds(tree *syntax.Tree) map[syntax.Kind]int {
	counts := make(map[syntax.Kind]int)
	tree.Walk(tree.Root, func(id syntax.NodeID) bool {
		counts[tree.Kind(id)]++
		return true
	})
	return counts
}

// checkCoverage: обход дерева в порядке детей даёт все токены файла подряд.
func checkCoverage(t *testing.T, tree *syntax.Tree) {
	t.Helper()
	var order []syntax.TokenID
	var visit func(id syntax.NodeID)
	visit = func(id syntax.NodeID) {
		for _, e := range tree.Node(id).Children {
			if e.IsNode() {
				visit(e.Node)
			} else {
				order = append(order, e.Token)
			}
		}
	}
	visit(tree.Root)
	if len(order) != len(tree.Tokens) {
		t.Fatalf("tree covers %d of %d tokens\n%s", len(order), len(tree.Tokens), tree.Dump(tree.Root))
	}
	for i, id := range order {
		if int(id) != i {
			t.Fatalf("token %d out of order: got %d (%q)", i, id, tree.Tokens[id].Text)
		}
	}
}

const declSource = `using System;
using static System.Math;
using Alias = System.Text;
global using System.Linq;

namespace Demo.App
{
    [Serializable]
    public sealed class Widget<T> : Base, IThing where T : class, new()
    {
        private readonly int _count = 0, _other;
        public event EventHandler Changed;

        public Widget(int count) : base(count)
        {
            _count = count;
        }

        public int Count { get => _count; private set { _count = value; } }
        public string Name => "w";
        public int this[int i] => i;

        public static Widget<T> operator +(Widget<T> a, Widget<T> b) => a;

        ~Widget() { }

        protected abstract void Run<U>(ref U value, params object[] rest);
    }

    public enum Color : byte { Red, Green = 2, }

    public delegate void Handler(object sender);

    public record Point(int X, int Y);

    interface IThing { void Go(); }
}
`

func TestParseDeclarations(t *testing.T) {
	tree := parseClean(t, declSource)
	checkCoverage(t, tree)

	want := map[syntax.Kind]int{
		syntax.UsingDirective:         4,
		syntax.NamespaceDecl:          1,
		syntax.TypeDecl:               3,
		syntax.FieldDecl:              1,
		syntax.EventDecl:              1,
		syntax.ConstructorDecl:        1,
		syntax.ConstructorInitializer: 1,
		syntax.PropertyDecl:           2,
		syntax.IndexerDecl:            1,
		syntax.MethodDecl:             4,
		syntax.EnumDecl:               1,
		syntax.EnumMember:             2,
		syntax.DelegateDecl:           1,
		syntax.AttributeList:          1,
		syntax.ConstraintClause:       1,
		syntax.Accessor:               2,
		syntax.Bad:                    0,
	}
	got := countKinds(tree)
	for kind, n := range want {
		if got[kind] != n {
			t.Errorf("%s: got %d, want %d", kind, got[kind], n)
		}
	}
}

func TestParseFileScopedNamespace(t *testing.T) {
	tree := parseClean(t, "namespace A.B;\n\npublic class X { }\n")
	checkCoverage(t, tree)
	children := tree.Children(tree.Root)
	if len(children) != 1 || tree.Kind(children[0]) != syntax.FileNamespaceDecl {
		t.Fatalf("unexpected root:\n%s", tree.Dump(tree.Root))
	}
	if !tree.ChildOfKind(children[0], syntax.TypeDecl).IsValid() {
		t.Fatalf("type not nested in namespace:\n%s", tree.Dump(tree.Root))
	}
}

// firstBlockKinds — виды операторов в теле первого метода.
func firstBlockKinds(t *testing.T, tree *syntax.Tree) []syntax.Kind {
	t.Helper()
	var block syntax.NodeID
	tree.Walk(tree.Root, func(id syntax.NodeID) bool {
		if !block.IsValid() && tree.Kind(id) == syntax.Block {
			block = id
		}
		return !block.IsValid()
	})
	if !block.IsValid() {
		t.Fatalf("no block")
	}
	var kinds []syntax.Kind
	for _, c := range tree.Children(block) {
		kinds = append(kinds, tree.Kind(c))
	}
	return kinds
}

func TestParseStatements(t *testing.T) {
	src := `class C {
  void M() {
    var x = 1;
    int[] arr = { 1, 2 };
    Foo(x);
    if (x > 0) return; else { x--; }
    for (int i = 0; i < 10; i++) { }
    foreach (var item in items) Console.WriteLine(item);
    while (true) break;
    do { x++; } while (x < 5);
    try { } catch (Exception e) when (e != null) { } finally { }
    switch (x) { case 1: case 2: break; default: return; }
    using (var s = Open()) { }
    using var t = Open();
    lock (this) { }
    label: x = 2;
    yield return x;
    throw new InvalidOperationException("no");
    int Local(int a) => a * 2;
    await Task.Delay(1);
    const int K = 3;
    ;
  }
}
`
	tree := parseClean(t, src)
	checkCoverage(t, tree)
	want := []syntax.Kind{
		syntax.LocalDeclStmt, syntax.LocalDeclStmt, syntax.ExpressionStmt, syntax.IfStmt,
		syntax.ForStmt, syntax.ForeachStmt, syntax.WhileStmt, syntax.DoStmt, syntax.TryStmt,
		syntax.SwitchStmt, syntax.UsingStmt, syntax.LocalDeclStmt, syntax.LockStmt,
		syntax.LabeledStmt, syntax.YieldStmt, syntax.ThrowStmt, syntax.LocalFunctionStmt,
		syntax.ExpressionStmt, syntax.LocalDeclStmt, syntax.EmptyStmt,
	}
	got := firstBlockKinds(t, tree)
	if len(got) != len(want) {
		t.Fatalf("got %d statements %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("statement %d: got %s, want %s", i, got[i], want[i])
		}
	}

	counts := countKinds(tree)
	if counts[syntax.SwitchSection] != 2 || counts[syntax.CaseLabel] != 2 || counts[syntax.DefaultLabel] != 1 {
		t.Errorf("switch structure: %d sections, %d case, %d default",
			counts[syntax.SwitchSection], counts[syntax.CaseLabel], counts[syntax.DefaultLabel])
	}
	if counts[syntax.CatchClause] != 1 || counts[syntax.CatchFilter] != 1 || counts[syntax.FinallyClause] != 1 {
		t.Errorf("try structure: %v", counts)
	}
}

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name  string
		stmt  string
		has   []syntax.Kind
		lacks []syntax.Kind
		dump  string
	}{
		{name: "comparison", stmt: "var a = b < c;", has: []syntax.Kind{syntax.BinaryExpr}, lacks: []syntax.Kind{syntax.GenericName}},
		{name: "generic call", stmt: "var d = Foo<int>(x);", has: []syntax.Kind{syntax.GenericName, syntax.Invocation}},
		{name: "nested generic", stmt: "List<List<int>> nested = null;", has: []syntax.Kind{syntax.LocalDeclStmt, syntax.TypeArgumentList}},
		{name: "shift", stmt: "var s = y >> 2;", dump: `BinaryExpr "> >"`},
		{name: "cast", stmt: "var c = (int)x;", has: []syntax.Kind{syntax.CastExpr}},
		{name: "parens", stmt: "var p = (a + b) * c;", has: []syntax.Kind{syntax.ParenExpr}, lacks: []syntax.Kind{syntax.CastExpr}},
		{name: "lambda", stmt: "Func<int, int> f = x => x + 1;", has: []syntax.Kind{syntax.LambdaExpr}},
		{name: "paren lambda", stmt: "Run((a, b) => { return; });", has: []syntax.Kind{syntax.LambdaExpr, syntax.Block}},
		{name: "tuple", stmt: `var t = (1, "a");`, has: []syntax.Kind{syntax.TupleExpr}},
		{name: "conditional access", stmt: "var q = a?.B ?? c;", has: []syntax.Kind{syntax.ConditionalAccess, syntax.BinaryExpr}},
		{name: "pattern", stmt: `var r = x is int n && n > 0 ? "pos" : "neg";`, has: []syntax.Kind{syntax.Pattern, syntax.ConditionalExpr}},
		{name: "switch expression", stmt: `var w = obj switch { 1 => "one", _ => "other" };`, has: []syntax.Kind{syntax.SwitchExpr, syntax.SwitchArm}},
		{name: "object initializer", stmt: "var n = new List<int> { 1, 2 };", has: []syntax.Kind{syntax.ObjectCreation, syntax.InitializerExpr}},
		{name: "array creation", stmt: "var arr2 = new int[3];", has: []syntax.Kind{syntax.ArrayCreation}},
		{name: "anonymous object", stmt: "var anon = new { A = 1 };", has: []syntax.Kind{syntax.AnonymousObjectCreation, syntax.AssignExpr}},
		{name: "null forgiving", stmt: "obj!.ToString();", has: []syntax.Kind{syntax.PostfixExpr, syntax.MemberAccess}},
		{name: "range", stmt: "var rng = arr[1..^1];", has: []syntax.Kind{syntax.RangeExpr, syntax.UnaryExpr, syntax.ElementAccess}},
		{name: "method chain", stmt: "items.Where(x => x > 1).Select(x => x).ToList();", has: []syntax.Kind{syntax.MemberAccess, syntax.Invocation, syntax.LambdaExpr}},
		{name: "query", stmt: "var q2 = from x in xs where x > 1 select x;", has: []syntax.Kind{syntax.QueryExpr}},
		{name: "out var", stmt: "Parse(s, out var value);", has: []syntax.Kind{syntax.DeclarationExpr}},
		{name: "typeof", stmt: "var ty = typeof(List<>);", has: []syntax.Kind{syntax.KeywordCall}},
		{name: "with", stmt: "var p2 = p with { X = 1 };", has: []syntax.Kind{syntax.WithExpr}},
		{name: "collection", stmt: "int[] xs2 = [1, 2, ..rest];", has: []syntax.Kind{syntax.InitializerExpr, syntax.RangeExpr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseClean(t, "class C { void M() { "+tt.stmt+" } }")
			checkCoverage(t, tree)
			counts := countKinds(tree)
			for _, k := range tt.has {
				if counts[k] == 0 {
					t.Errorf("missing %s in\n%s", k, tree.Dump(tree.Root))
				}
			}
			for _, k := range tt.lacks {
				if counts[k] != 0 {
					t.Errorf("unexpected %s in\n%s", k, tree.Dump(tree.Root))
				}
			}
			if tt.dump != "" && !strings.Contains(tree.Dump(tree.Root), tt.dump) {
				t.Errorf("dump lacks %q:\n%s", tt.dump, tree.Dump(tree.Root))
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	src := `class C {
  void M() {
    int x = ;
    Foo();
  }
  int ) garbage;
  void N() { }
}
`
	tree, bag := parse(t, src)
	checkCoverage(t, tree)
	if !bag.HasErrors() {
		t.Fatalf("expected syntax errors")
	}
	counts := countKinds(tree)
	if counts[syntax.MethodDecl] != 2 {
		t.Fatalf("expected both methods to survive, got %d\n%s", counts[syntax.MethodDecl], tree.Dump(tree.Root))
	}
	if counts[syntax.Bad] == 0 {
		t.Fatalf("expected a Bad node\n%s", tree.Dump(tree.Root))
	}
}

func TestParseMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte("class C { ) ) ) ) }")))
	bag := diag.NewBag(0)
	parser.ParseFile(file, parser.Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 2 {
		t.Fatalf("expected exactly 2 diagnostics, got %d", bag.Len())
	}
}

func TestParseEmptyFile(t *testing.T) {
	tree := parseClean(t, "// only a comment\n")
	checkCoverage(t, tree)
	if len(tree.Children(tree.Root)) != 0 {
		t.Fatalf("expected empty compilation unit")
	}
}
