package scan_test

import (
	"testing"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/layout"
	"cslayout/internal/parser"
	"cslayout/internal/rules"
	"cslayout/internal/scan"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
	"cslayout/internal/trace"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	return parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(0)}})
}

// panicky blows up on every try statement.
type panicky struct{}

func (panicky) ID() string         { return "LY9001" }
func (panicky) Name() string       { return "panicky" }
func (panicky) Kind() rules.Family { return rules.BlankLine }
func (panicky) Priority() int      { return 1 }
func (panicky) Summary() string    { return "test rule" }
func (panicky) Applies(_ *rules.Context, n rules.Node) bool {
	return n.Kind == construct.TryStatement
}
func (panicky) Evaluate(*rules.Context, rules.Node) []diag.Violation {
	panic("boom")
}

const twoTries = `class C
{
    void M()
    {
        Run();
        try { } finally { }
        Run();
        try { } finally { }
    }
}
`

func TestScanRecoversFromPanics(t *testing.T) {
	try, _ := rules.Lookup("LY1003")
	ring := trace.NewRingTracer(16, trace.LevelError)
	vs := scan.Scan(parse(t, twoTries), rules.NewSet(panicky{}, try), scan.Options{
		Layout: layout.Default(),
		Tracer: ring,
	})
	var panics, layoutHits int
	for _, v := range vs {
		switch v.RuleID {
		case diag.ObsRulePanic.ID():
			panics++
		case "LY1003":
			layoutHits++
		}
	}
	if panics != 1 {
		t.Fatalf("expected one panic report, got %d: %+v", panics, vs)
	}
	if layoutHits != 3 {
		t.Fatalf("the other rule must keep running, got %d LY1003 violations", layoutHits)
	}
	if got := len(ring.Snapshot()); got != 2 {
		t.Fatalf("expected a trace point per panic, got %d", got)
	}
}

func TestScanSortsByPosition(t *testing.T) {
	vs := scan.Scan(parse(t, twoTries), rules.All(), scan.Options{Layout: layout.Default()})
	for i := 1; i < len(vs); i++ {
		if diag.Less(&vs[i], &vs[i-1]) {
			t.Fatalf("violations out of order at %d: %+v", i, vs)
		}
	}
	if len(vs) == 0 {
		t.Fatalf("expected violations")
	}
}

func TestScanSkipsBadNodes(t *testing.T) {
	src := "class C\n{\n    int ) x;\n    void M()\n    {\n        Run();\n        for (;;) { }\n    }\n}\n"
	vs := scan.Scan(parse(t, src), rules.All(), scan.Options{Layout: layout.Default()})
	if len(vs) != 1 || vs[0].RuleID != "LY1005" {
		t.Fatalf("expected only the loop violation, got %+v", vs)
	}
}

func TestScanEmptySet(t *testing.T) {
	if vs := scan.Scan(parse(t, twoTries), rules.NewSet(), scan.Options{}); vs != nil {
		t.Fatalf("expected nil, got %+v", vs)
	}
}
