package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("parse")
	tm.End(i, "12 nodes")
	tm.End(7, "ignored")
	j := tm.Begin("scan")
	tm.End(j, "")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "12 nodes" {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total below a phase: %+v", r)
	}
	if got := NewTimer().Report(); len(got.Phases) != 0 || got.TotalMS != 0 {
		t.Fatalf("empty timer must give an empty report")
	}
}

func TestAggregate(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "scan", DurationMS: 2}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "scan", DurationMS: 4}, {Name: "fix", DurationMS: 1}}}

	got := Aggregate([]Report{a, b})
	if got.TotalMS != 8 {
		t.Fatalf("total %v", got.TotalMS)
	}
	want := []PhaseReport{
		{Name: "parse", DurationMS: 1, Note: "1 files"},
		{Name: "scan", DurationMS: 6, Note: "2 files"},
		{Name: "fix", DurationMS: 1, Note: "1 files"},
	}
	for i, p := range want {
		if got.Phases[i] != p {
			t.Fatalf("phase %d: got %+v, want %+v", i, got.Phases[i], p)
		}
	}
	s := got.Summary()
	if !strings.Contains(s, "scan") || !strings.Contains(s, "total") || !strings.Contains(s, "// 2 files") {
		t.Fatalf("summary:\n%s", s)
	}
}
