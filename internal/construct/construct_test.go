package construct_test

import (
	"testing"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/parser"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	bag := diag.NewBag(0)
	tree := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() > 0 {
		t.Fatalf("unexpected diagnostics: %v\n%s", bag.Items(), tree.Dump(tree.Root))
	}
	return tree
}

// body parses statements inside a method and returns them.
func body(t *testing.T, stmts string) (*syntax.Tree, []syntax.NodeID) {
	t.Helper()
	tree := parse(t, "class C\n{\n    void M()\n    {\n"+stmts+"\n    }\n}\n")
	block := find(tree, syntax.Block)
	return tree, tree.Children(block)
}

func find(tree *syntax.Tree, kind syntax.Kind) syntax.NodeID {
	var found syntax.NodeID
	tree.Walk(tree.Root, func(id syntax.NodeID) bool {
		if !found.IsValid() && tree.Kind(id) == kind {
			found = id
		}
		return !found.IsValid()
	})
	return found
}

func TestClassifyStatements(t *testing.T) {
	tree, stmts := body(t, `
        ArgumentNullException.ThrowIfNull(a);
        var x = 1;
        try { } finally { }
        foreach (var i in xs) { }
        for (;;) { }
        while (x > 0) { }
        do { } while (false);
        break;
        throw new Exception();
        return x;
        Foo();`)
	want := []construct.Kind{
		construct.GuardClause, construct.LocalDeclaration, construct.TryStatement,
		construct.ForeachStatement, construct.ForStatement, construct.WhileStatement,
		construct.DoStatement, construct.BreakStatement, construct.ThrowStatement,
		construct.Return,
	}
	if len(stmts) != len(want)+1 {
		t.Fatalf("got %d statements", len(stmts))
	}
	for i, k := range want {
		got, ok := construct.Classify(tree, stmts[i])
		if !ok || got != k {
			t.Errorf("statement %d: got %v (%v), want %v", i, got, ok, k)
		}
	}
	if k, ok := construct.Classify(tree, stmts[len(stmts)-1]); ok {
		t.Errorf("plain call classified as %v", k)
	}
}

func TestClassifyBlockPriority(t *testing.T) {
	tree, stmts := body(t, `
        switch (x)
        {
            case 1:
            {
                break;
            }
        }
        Run(() =>
        {
        });
        {
        }`)
	section := find(tree, syntax.SwitchSection)
	caseBlock := tree.ChildOfKind(section, syntax.Block)
	if k, _ := construct.Classify(tree, caseBlock); k != construct.CaseBlock {
		t.Fatalf("case block classified as %v", k)
	}
	lambda := find(tree, syntax.LambdaExpr)
	if k, _ := construct.Classify(tree, tree.ChildOfKind(lambda, syntax.Block)); k != construct.LambdaBody {
		t.Fatalf("lambda body classified as %v", k)
	}
	if k, _ := construct.Classify(tree, stmts[2]); k != construct.Block {
		t.Fatalf("plain block classified as %v", k)
	}
}

func TestClassifyExpressions(t *testing.T) {
	tests := []struct {
		stmt string
		node syntax.Kind
		want construct.Kind
	}{
		{"x = a + b;", syntax.BinaryExpr, construct.BinaryOperator},
		{"x = a + b;", syntax.AssignExpr, construct.Assignment},
		{"var y = 1;", syntax.EqualsValue, construct.Assignment},
		{"a.B();", syntax.MemberAccess, construct.MemberAccess},
		{"a?.B();", syntax.ConditionalAccess, construct.MemberAccess},
		{"var c = (int)d;", syntax.CastExpr, construct.Cast},
		{"var o = new Foo();", syntax.ObjectCreation, construct.NewExpression},
		{"var o = new Foo();", syntax.ArgumentList, construct.ArgumentList},
		{"var l = new List<int> { 1 };", syntax.InitializerExpr, construct.Initializer},
		{"var s = v switch { _ => 1 };", syntax.SwitchExpr, construct.SwitchExpression},
	}
	for _, tt := range tests {
		tree, _ := body(t, tt.stmt)
		id := find(tree, tt.node)
		if !id.IsValid() {
			t.Fatalf("%s: no %s node", tt.stmt, tt.node)
		}
		if got, ok := construct.Classify(tree, id); !ok || got != tt.want {
			t.Errorf("%s: %s classified as %v, want %v", tt.stmt, tt.node, got, tt.want)
		}
	}
}

func TestParameterListClassified(t *testing.T) {
	tree := parse(t, "class C { void M(int a, int b) { } }")
	id := find(tree, syntax.ParameterList)
	if k, _ := construct.Classify(tree, id); k != construct.ParameterList {
		t.Fatalf("got %v", k)
	}
	if got := construct.Anchor(tree, id, construct.ParameterList); tree.Token(got).Text != "(" {
		t.Fatalf("anchor %q", tree.Token(got).Text)
	}
}

func TestGuardRun(t *testing.T) {
	tree, stmts := body(t, `
        ArgumentNullException.ThrowIfNull(a);
        System.ArgumentException.ThrowIfNullOrEmpty(b);
        ArgumentOutOfRangeException.ThrowIfNegative(c);
        ObjectDisposedException.ThrowIf(d, this);
        ArgumentException.ThrowIfBogus(e);
        Use(a);`)
	families := []construct.GuardFamily{
		construct.GuardNull, construct.GuardEmpty, construct.GuardRange, construct.GuardDisposed,
		construct.GuardNone, construct.GuardNone,
	}
	for i, f := range families {
		if got := construct.GuardFamilyOf(tree, stmts[i]); got != f {
			t.Errorf("statement %d: family %v, want %v", i, got, f)
		}
	}
	run := construct.GuardRun(tree, stmts[2])
	if len(run) != 4 || run[0] != stmts[0] || run[3] != stmts[3] {
		t.Fatalf("unexpected run %v", run)
	}
	for i := 0; i < 4; i++ {
		if end := construct.IsRunEnd(tree, stmts[i]); end != (i == 3) {
			t.Errorf("statement %d: IsRunEnd = %v", i, end)
		}
	}
}

func TestNeighbours(t *testing.T) {
	tree, stmts := body(t, `
        Foo();
        if (x) return;
        switch (x)
        {
            case 1:
                Bar();
                break;
        }`)
	if prev, next := construct.Neighbours(tree, stmts[0]); prev.IsValid() || next != stmts[1] {
		t.Fatalf("first statement neighbours: %v %v", prev, next)
	}
	ret := find(tree, syntax.ReturnStmt)
	if prev, next := construct.Neighbours(tree, ret); prev.IsValid() || next.IsValid() {
		t.Fatalf("embedded statement must have no neighbours")
	}
	section := find(tree, syntax.SwitchSection)
	inner := tree.Children(section) // CaseLabel, Bar(), break
	if prev, _ := construct.Neighbours(tree, inner[1]); prev.IsValid() {
		t.Fatalf("case label counted as a neighbour")
	}
	if prev, _ := construct.Neighbours(tree, inner[2]); prev != inner[1] {
		t.Fatalf("break should follow Bar()")
	}
}

func TestUsingGroups(t *testing.T) {
	tree := parse(t, "using System;\nusing System.Text;\nusing IO = System.IO;\nusing static System.Math;\nglobal using Microsoft.Extensions;\n")
	u := tree.Children(tree.Root)
	if !construct.SameUsingGroup(tree, u[0], u[1]) {
		t.Errorf("System and System.Text share a group")
	}
	if construct.SameUsingGroup(tree, u[1], u[2]) {
		t.Errorf("alias breaks the group")
	}
	if !construct.SameUsingGroup(tree, u[0], u[3]) {
		t.Errorf("using static compares by name")
	}
	if construct.SameUsingGroup(tree, u[3], u[4]) {
		t.Errorf("Microsoft is a new group")
	}

	cased := parse(t, "using System;\nusing system.IO;\n")
	c := cased.Children(cased.Root)
	if construct.SameUsingGroup(cased, c[0], c[1]) {
		t.Errorf("segments compare case-sensitively")
	}
}

func TestAnchors(t *testing.T) {
	tree, _ := body(t, "var c = (int)(a + b);")
	bin := find(tree, syntax.BinaryExpr)
	if got := tree.Token(construct.Anchor(tree, bin, construct.BinaryOperator)).Text; got != "+" {
		t.Errorf("binary anchor %q", got)
	}
	cast := find(tree, syntax.CastExpr)
	if got := tree.Token(construct.Anchor(tree, cast, construct.Cast)).Text; got != ")" {
		t.Errorf("cast anchor %q", got)
	}
	eq := find(tree, syntax.EqualsValue)
	if got := tree.Token(construct.Anchor(tree, eq, construct.Assignment)).Text; got != "=" {
		t.Errorf("assignment anchor %q", got)
	}
}

func TestBadNodesNotClassified(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.cs", []byte("class C { int ) x; }")))
	tree := parser.ParseFile(file, parser.Options{})
	bad := find(tree, syntax.Bad)
	if !bad.IsValid() {
		t.Fatalf("expected a Bad node")
	}
	if _, ok := construct.Classify(tree, bad); ok {
		t.Fatalf("Bad node must not classify")
	}
}
