// Package fix turns violations into text edits and applies them. Planning
// drops conflicting lower-priority edits for the pass; Converge repeats
// scan and fix until nothing is left to apply.
package fix

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cslayout/internal/diag"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
)

var (
	// ErrNoFixes is returned when no fixes were applied.
	ErrNoFixes = errors.New("no applicable fixes found")
	// ErrStaleEdit is returned when an edit no longer matches the text it
	// was computed for.
	ErrStaleEdit = errors.New("edit does not match the text")
)

// DefaultMaxPasses bounds Converge when the caller passes zero.
const DefaultMaxPasses = 8

// AppliedFix records a fix accepted into a pass.
type AppliedFix struct {
	RuleID  string
	Title   string
	Message string
	Primary source.Span
}

// SkippedFix captures a fix left out of a pass with a reason. Its violation
// stays reported.
type SkippedFix struct {
	RuleID string
	Title  string
	Span   source.Span
	Reason string
}

// Selection is the outcome of Plan: non-overlapping edits ordered by
// position, plus what was accepted and what was dropped.
type Selection struct {
	Edits   []diag.TextEdit
	Applied []AppliedFix
	Skipped []SkippedFix
}

type candidate struct {
	v     *diag.Violation
	order int
}

// Plan selects one edit per fixable violation. Candidates are ordered by
// priority (high first), position and rule ID; a candidate conflicting with an
// already accepted edit is skipped for this pass.
func Plan(violations []diag.Violation) Selection {
	cands := gatherCandidates(violations)
	sortCandidates(cands)

	var sel Selection
	owners := make([]string, 0, len(cands))
	for _, c := range cands {
		edit := c.v.Fix.Edit
		if i := conflictIndex(sel.Edits, edit); i >= 0 {
			sel.Skipped = append(sel.Skipped, SkippedFix{
				RuleID: c.v.RuleID,
				Title:  c.v.Fix.Title,
				Span:   edit.Span,
				Reason: fmt.Sprintf("conflicts with %s edit", owners[i]),
			})
			continue
		}
		sel.Edits = append(sel.Edits, copyEdit(edit))
		owners = append(owners, c.v.RuleID)
		sel.Applied = append(sel.Applied, AppliedFix{
			RuleID:  c.v.RuleID,
			Title:   c.v.Fix.Title,
			Message: c.v.Message,
			Primary: c.v.Primary,
		})
	}
	sort.SliceStable(sel.Edits, func(i, j int) bool {
		return sel.Edits[i].Span.Start < sel.Edits[j].Span.Start
	})
	return sel
}

func gatherCandidates(violations []diag.Violation) []candidate {
	cands := make([]candidate, 0, len(violations))
	for i := range violations {
		if !violations[i].HasFix() {
			continue
		}
		cands = append(cands, candidate{v: &violations[i], order: i})
	}
	return cands
}

// sortCandidates orders by fix priority (high first), file, span start,
// span end, rule ID and finally insertion order.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		fi, fj := cands[i].v.Fix, cands[j].v.Fix
		if fi.Priority != fj.Priority {
			return fi.Priority > fj.Priority
		}
		ei, ej := fi.Edit.Span, fj.Edit.Span
		if ei.File != ej.File {
			return ei.File < ej.File
		}
		if ei.Start != ej.Start {
			return ei.Start < ej.Start
		}
		if ei.End != ej.End {
			return ei.End < ej.End
		}
		if cands[i].v.RuleID != cands[j].v.RuleID {
			return cands[i].v.RuleID < cands[j].v.RuleID
		}
		return cands[i].order < cands[j].order
	})
}

func conflictIndex(accepted []diag.TextEdit, edit diag.TextEdit) int {
	for i, prev := range accepted {
		if spansConflict(prev, edit) {
			return i
		}
	}
	return -1
}

// spansConflict reports whether two edits may not share a pass. Spans are
// half-open [Start, End). Two inserts at the same offset conflict since
// their order would be arbitrary. An insert conflicts with a span strictly
// containing its position; touching spans do not conflict.
func spansConflict(a, b diag.TextEdit) bool {
	if a.Span.File != b.Span.File {
		return false
	}
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return aStart == bStart
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// Apply returns text with edits applied. The edits must not overlap; each
// edit with an OldText guard must match the text it replaces. The input is
// never modified.
func Apply(text string, edits []diag.TextEdit) (string, error) {
	sorted := make([]diag.TextEdit, len(edits))
	for i, e := range edits {
		sorted[i] = copyEdit(e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End < sorted[j].Span.End
		}
		return sorted[i].Span.Start < sorted[j].Span.Start
	})

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < pos || end < start || end > len(text) {
			return text, fmt.Errorf("edit %s out of range or overlapping", e.Span)
		}
		if e.OldText != "" && text[start:end] != e.OldText {
			return text, fmt.Errorf("%w: %s expected %q, found %q", ErrStaleEdit, e.Span, e.OldText, text[start:end])
		}
		b.WriteString(text[pos:start])
		b.WriteString(e.NewText)
		pos = end
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}

// Fix plans the fixes of the violations reported for tree and applies them
// to text. It returns ErrNoFixes when no violation carries an edit.
func Fix(tree *syntax.Tree, text string, violations []diag.Violation) (string, Selection, error) {
	own := make([]diag.Violation, 0, len(violations))
	for _, v := range violations {
		if v.HasFix() && v.Fix.Edit.Span.File == tree.File.ID {
			own = append(own, v)
		}
	}
	sel := Plan(own)
	if len(sel.Edits) == 0 {
		return text, sel, ErrNoFixes
	}
	out, err := Apply(text, sel.Edits)
	if err != nil {
		return text, sel, err
	}
	return out, sel, nil
}

// ScanFunc re-analyses text and reports its violations.
type ScanFunc func(text string) ([]diag.Violation, error)

// Result summarises a Converge run.
type Result struct {
	Passes    int
	Applied   []AppliedFix
	Skipped   []SkippedFix // from the last pass that applied anything
	Remaining []diag.Violation
}

// Converge alternates scan and fix until a pass applies nothing or maxPasses
// passes ran. Remaining holds the violations of the final text. ErrNoFixes
// is returned when the first pass has nothing to apply.
func Converge(text string, scan ScanFunc, maxPasses int) (string, Result, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	var res Result
	cur := text
	for {
		vs, err := scan(cur)
		if err != nil {
			return cur, res, fmt.Errorf("scan pass %d: %w", res.Passes+1, err)
		}
		sel := Plan(vs)
		if len(sel.Edits) == 0 || res.Passes == maxPasses {
			res.Remaining = vs
			break
		}
		next, err := Apply(cur, sel.Edits)
		if err != nil {
			return cur, res, fmt.Errorf("fix pass %d: %w", res.Passes+1, err)
		}
		res.Passes++
		res.Applied = append(res.Applied, sel.Applied...)
		res.Skipped = sel.Skipped
		cur = next
	}
	if res.Passes == 0 {
		return cur, res, ErrNoFixes
	}
	return cur, res, nil
}

func copyEdit(e diag.TextEdit) diag.TextEdit {
	return diag.TextEdit{
		Span:    e.Span,
		NewText: e.NewText,
		OldText: e.OldText,
	}
}
