package rules

import (
	"fmt"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
	"cslayout/internal/trivia"
)

// blankLineRule checks the gaps between a statement and its neighbours in the
// enclosing list. The exempt hooks drop single boundaries.
type blankLineRule struct {
	meta
	target       construct.Kind
	relation     Relation
	exemptBefore func(t *syntax.Tree, prev, cur syntax.NodeID) bool
	exemptAfter  func(t *syntax.Tree, cur, next syntax.NodeID) bool
	annotate     func(ctx *Context, id syntax.NodeID, v diag.Violation) diag.Violation
}

func (r *blankLineRule) Applies(_ *Context, n Node) bool {
	return n.Kind == r.target
}

func (r *blankLineRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	prev, next := construct.Neighbours(t, n.ID)
	var out []diag.Violation
	if r.relation.before() && prev.IsValid() && t.Kind(prev) != syntax.Bad &&
		(r.exemptBefore == nil || !r.exemptBefore(t, prev, n.ID)) {
		first := construct.First(t, n.ID)
		if v, ok := r.check(ctx, prev, construct.Last(t, prev), first, first, "before"); ok {
			out = append(out, v)
		}
	}
	// следующий узел того же вида продолжает серию или сам проверит границу
	if r.relation.after() && next.IsValid() && t.Kind(next) != syntax.Bad &&
		!construct.Is(t, next, r.target) && !checkedBefore(ctx, n.ID, next) &&
		(r.exemptAfter == nil || !r.exemptAfter(t, n.ID, next)) {
		last := construct.Last(t, n.ID)
		if v, ok := r.check(ctx, n.ID, last, construct.First(t, next), last, "after"); ok {
			out = append(out, v)
		}
	}
	if r.annotate != nil {
		for i := range out {
			out[i] = r.annotate(ctx, n.ID, out[i])
		}
	}
	return out
}

// check reports a missing blank line between left and right. upper is the
// statement above the gap, its line gives the indentation when the two
// statements share a line.
func (r *blankLineRule) check(ctx *Context, upper syntax.NodeID, left, right, at syntax.TokenID, side string) (diag.Violation, bool) {
	t := ctx.Tree
	gap := ctx.gap(left, right)
	if gap.HasBlankLine() {
		return diag.Violation{}, false
	}
	v := r.violation(ctx, at, fmt.Sprintf("missing blank line %s %s", side, r.target.Describe()))
	indent := t.File.Indentation(t.Line(construct.First(t, upper)))
	edit, ok := trivia.InsertBlankLine(gap, indent)
	return r.withEdit(v, "insert blank line", edit, ok), true
}

// checkedBefore reports whether an enabled rule checks the gap above next
// itself, so the gap is reported once.
func checkedBefore(ctx *Context, cur, next syntax.NodeID) bool {
	kind, ok := construct.Classify(ctx.Tree, next)
	if !ok {
		return false
	}
	for _, rule := range Catalog() {
		b, ok := rule.(*blankLineRule)
		if !ok || b.target != kind || !b.relation.before() || !ctx.enabled(b.id) {
			continue
		}
		if b.exemptBefore == nil || !b.exemptBefore(ctx.Tree, cur, next) {
			return true
		}
	}
	return false
}

// using-директивы одной группы (общий первый сегмент, без алиасов) идут подряд
func sameUsingGroup(t *syntax.Tree, prev, cur syntax.NodeID) bool {
	return t.Kind(prev) == syntax.UsingDirective && construct.SameUsingGroup(t, prev, cur)
}

// только последний guard clause серии проверяет границу после себя
func insideGuardRun(t *syntax.Tree, cur, _ syntax.NodeID) bool {
	return !construct.IsRunEnd(t, cur)
}

// guardRunNote points at the first clause of a run longer than one.
func guardRunNote(ctx *Context, id syntax.NodeID, v diag.Violation) diag.Violation {
	run := construct.GuardRun(ctx.Tree, id)
	if len(run) < 2 {
		return v
	}
	first := construct.First(ctx.Tree, run[0])
	return v.WithNote(ctx.tok(first).Span, fmt.Sprintf("run of %d guard clauses starts here", len(run)))
}

func afterLocalDeclaration(t *syntax.Tree, prev, _ syntax.NodeID) bool {
	return construct.Is(t, prev, construct.LocalDeclaration)
}

// blockEdgeRule forbids blank lines right after '{' and right before '}' of
// statement blocks.
type blockEdgeRule struct {
	meta
}

func (r *blockEdgeRule) Applies(_ *Context, n Node) bool {
	switch n.Kind {
	case construct.Block, construct.CaseBlock, construct.LambdaBody:
		return true
	}
	return false
}

func (r *blockEdgeRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	open, closing := construct.First(t, n.ID), construct.Last(t, n.ID)
	if open >= closing || ctx.tok(open).Kind != token.LBrace || ctx.tok(closing).Kind != token.RBrace {
		return nil
	}
	if open+1 == closing {
		return r.check(ctx, open, closing, open, "blank line inside empty block")
	}
	out := r.check(ctx, open, open+1, open, "blank line after '{'")
	return append(out, r.check(ctx, closing-1, closing, closing, "blank line before '}'")...)
}

func (r *blockEdgeRule) check(ctx *Context, left, right, at syntax.TokenID, msg string) []diag.Violation {
	edit, ok := trivia.RemoveBlankLines(ctx.gap(left, right))
	if !ok {
		return nil
	}
	v := r.violation(ctx, at, msg)
	return []diag.Violation{r.withEdit(v, "remove blank line", edit, true)}
}
