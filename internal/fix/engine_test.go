package fix

import (
	"errors"
	"strings"
	"testing"

	"cslayout/internal/diag"
	"cslayout/internal/source"
)

func insertAt(rule string, prio int, at uint32, text string) diag.Violation {
	sp := source.Span{Start: at, End: at}
	return diag.Violation{
		RuleID:  rule,
		Primary: sp,
		Fix:     &diag.Fix{Title: "insert", Edit: diag.TextEdit{Span: sp, NewText: text}, Priority: prio},
	}
}

func replace(rule string, prio int, start, end uint32, old, text string) diag.Violation {
	sp := source.Span{Start: start, End: end}
	return diag.Violation{
		RuleID:  rule,
		Primary: sp,
		Fix:     &diag.Fix{Title: "replace", Edit: diag.TextEdit{Span: sp, NewText: text, OldText: old}, Priority: prio},
	}
}

func TestPlanDropsLowerPriorityConflicts(t *testing.T) {
	vs := []diag.Violation{
		insertAt("LY1005", 105, 7, "\n"),
		insertAt("LY1010", 115, 7, "\n"),
		replace("LY2002", 50, 2, 6, "    ", "  "),
		replace("LY1011", 120, 4, 8, "  \n ", ""),
		{RuleID: "LY2008", Primary: source.Span{Start: 9, End: 9}},
	}
	sel := Plan(vs)
	if len(sel.Edits) != 2 {
		t.Fatalf("expected 2 edits, got %+v", sel.Edits)
	}
	if sel.Edits[0].Span.Start != 4 || sel.Edits[1].Span.Start != 7 {
		t.Fatalf("edits must be ordered by position: %+v", sel.Edits)
	}
	if len(sel.Skipped) != 2 {
		t.Fatalf("expected 2 skipped fixes, got %+v", sel.Skipped)
	}
	for _, s := range sel.Skipped {
		switch s.RuleID {
		case "LY1005":
			if s.Reason != "conflicts with LY1010 edit" {
				t.Fatalf("unexpected reason %q", s.Reason)
			}
		case "LY2002":
			if s.Reason != "conflicts with LY1011 edit" {
				t.Fatalf("unexpected reason %q", s.Reason)
			}
		default:
			t.Fatalf("unexpected skip %+v", s)
		}
	}
}

func TestSpansConflict(t *testing.T) {
	at := func(s, e uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{at(3, 3), at(3, 3), true},
		{at(3, 3), at(4, 4), false},
		{at(3, 3), at(1, 5), true},
		{at(3, 3), at(3, 5), false},
		{at(5, 5), at(3, 5), false},
		{at(1, 4), at(3, 6), true},
		{at(1, 3), at(3, 6), false},
	}
	for i, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Fatalf("case %d: spansConflict(%v, %v) = %v, want %v", i, tt.a.Span, tt.b.Span, got, tt.want)
		}
		if got := spansConflict(tt.b, tt.a); got != tt.want {
			t.Fatalf("case %d: conflict must be symmetric", i)
		}
	}
}

func TestApply(t *testing.T) {
	text := "a;\nb;\n"
	edits := []diag.TextEdit{
		{Span: source.Span{Start: 5, End: 5}, NewText: "\nc;"},
		{Span: source.Span{Start: 3, End: 3}, NewText: "\n"},
	}
	got, err := Apply(text, edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != "a;\n\nb;\nc;\n" {
		t.Fatalf("got %q", got)
	}
	if text != "a;\nb;\n" {
		t.Fatalf("input must not change")
	}
}

func TestApplyRejectsStaleAndOverlapping(t *testing.T) {
	stale := []diag.TextEdit{{Span: source.Span{Start: 0, End: 2}, OldText: "x;", NewText: ""}}
	if _, err := Apply("a;\n", stale); !errors.Is(err, ErrStaleEdit) {
		t.Fatalf("expected ErrStaleEdit, got %v", err)
	}
	overlap := []diag.TextEdit{
		{Span: source.Span{Start: 0, End: 2}},
		{Span: source.Span{Start: 1, End: 3}},
	}
	if _, err := Apply("a;\n", overlap); err == nil {
		t.Fatalf("expected overlap error")
	}
	if _, err := Apply("a;", []diag.TextEdit{{Span: source.Span{Start: 1, End: 9}}}); err == nil {
		t.Fatalf("expected range error")
	}
}

// blankBefore wants a blank line in front of every "x".
func blankBefore(text string) ([]diag.Violation, error) {
	var vs []diag.Violation
	for i := 1; i < len(text); i++ {
		if text[i] == 'x' && text[i-1] == '\n' && (i < 2 || text[i-2] != '\n') {
			vs = append(vs, insertAt("LY1003", 110, uint32(i), "\n"))
		}
	}
	return vs, nil
}

func TestConvergeIsIdempotent(t *testing.T) {
	out, res, err := Converge("a\nx\nb\nx\n", blankBefore, 0)
	if err != nil {
		t.Fatalf("converge: %v", err)
	}
	if out != "a\n\nx\nb\n\nx\n" {
		t.Fatalf("got %q", out)
	}
	if res.Passes != 1 || len(res.Applied) != 2 || len(res.Remaining) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	again, _, err := Converge(out, blankBefore, 0)
	if !errors.Is(err, ErrNoFixes) || again != out {
		t.Fatalf("second run must be a no-op, got %q, %v", again, err)
	}
}

func TestConvergeStopsAtMaxPasses(t *testing.T) {
	grow := func(text string) ([]diag.Violation, error) {
		return []diag.Violation{insertAt("LY9000", 1, uint32(len(text)), "!")}, nil
	}
	out, res, err := Converge("go", grow, 3)
	if err != nil {
		t.Fatalf("converge: %v", err)
	}
	if out != "go!!!" || res.Passes != 3 || len(res.Remaining) != 1 {
		t.Fatalf("got %q, %+v", out, res)
	}
	if !strings.HasPrefix(out, "go") {
		t.Fatalf("prefix lost")
	}
}
