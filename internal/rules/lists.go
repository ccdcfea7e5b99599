package rules

import (
	"fmt"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/trivia"
)

// listRule aligns the continuation entries of a multi-line parameter or
// argument list one indent unit right of the owner column. Entries sharing a
// line with the previous token are not continuations and stay untouched.
type listRule struct {
	meta
	target construct.Kind
	entry  string
}

func (r *listRule) Applies(_ *Context, n Node) bool {
	return n.Kind == r.target
}

func (r *listRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	entries := t.Children(n.ID)
	if len(entries) == 0 {
		return nil
	}
	open := construct.First(t, n.ID)
	want := ctx.Options.Indented(ownerColumn(ctx, n.ID, open))
	var out []diag.Violation
	for _, e := range entries {
		first := construct.First(t, e)
		if first == 0 || first <= open {
			continue
		}
		gap := ctx.gap(first-1, first)
		if !gap.StartsLine() {
			continue
		}
		col := ctx.column(first)
		if col == want {
			continue
		}
		v := r.violation(ctx, first, fmt.Sprintf("%s starts at column %d, expected column %d", r.entry, col, want))
		edit, ok := trivia.Reindent(gap, want, ctx.style(open))
		out = append(out, r.withEdit(v, "align "+r.entry, edit, ok))
	}
	return out
}

// ownerColumn: колонка первого токена владельца (после атрибутов), если он на
// строке открывающей скобки, иначе отступ этой строки.
func ownerColumn(ctx *Context, list syntax.NodeID, open syntax.TokenID) int {
	t := ctx.Tree
	if first, ok := ownerStart(t, t.Parent(list)); ok && first <= open && t.SameLine(first, open) {
		return ctx.column(first)
	}
	return t.LineIndentColumn(open, ctx.Options.TabSize)
}

func ownerStart(t *syntax.Tree, owner syntax.NodeID) (syntax.TokenID, bool) {
	n := t.Node(owner)
	if n == nil {
		return 0, false
	}
	for _, e := range n.Children {
		if !e.IsNode() {
			return e.Token, true
		}
		if t.Kind(e.Node) == syntax.AttributeList {
			continue
		}
		return t.Node(e.Node).First, true
	}
	return n.First, true
}

// initializerRule puts every element of a multi-line initializer or
// collection, together with the comment lines above it, one indent unit right
// of the open bracket.
type initializerRule struct {
	meta
}

func (r *initializerRule) Applies(_ *Context, n Node) bool {
	return n.Kind == construct.Initializer
}

func (r *initializerRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	open := construct.First(t, n.ID)
	want := ctx.Options.Indented(ctx.column(open))
	var out []diag.Violation
	for _, e := range t.Children(n.ID) {
		first := construct.First(t, e)
		if first <= open {
			continue
		}
		gap := ctx.gap(first-1, first)
		if !gap.StartsLine() {
			continue
		}
		edit, ok := trivia.ReindentLines(gap, want, ctx.style(open))
		if !ok {
			continue
		}
		msg := fmt.Sprintf("element starts at column %d, expected column %d", ctx.column(first), want)
		if ctx.column(first) == want {
			msg = fmt.Sprintf("comment above element is not at column %d", want)
		}
		out = append(out, r.withEdit(r.violation(ctx, first, msg), "align element", edit, true))
	}
	return out
}
