package rules

import (
	"fmt"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
	"cslayout/internal/trivia"
)

// braces locates the braces of a construct and the token whose column they
// align with.
type braces func(t *syntax.Tree, id syntax.NodeID) (open, closing, ref syntax.TokenID, ok bool)

// braceRule: a '{' on its own line sits at the reference column; its '}'
// then gets its own line at the same column. A '{' ending the reference line
// is accepted as is.
type braceRule struct {
	meta
	target construct.Kind
	locate braces
}

func (r *braceRule) Applies(_ *Context, n Node) bool {
	return n.Kind == r.target
}

func (r *braceRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	open, closing, ref, ok := r.locate(t, n.ID)
	if !ok || open == 0 || ref >= open {
		return nil
	}
	gap := ctx.gap(open-1, open)
	if !gap.StartsLine() {
		return nil
	}
	want := ctx.column(ref)
	refText := ctx.tok(ref).Text
	var out []diag.Violation
	if col := ctx.column(open); col != want {
		v := r.violation(ctx, open, fmt.Sprintf("'{' at column %d must align with '%s' at column %d", col, refText, want))
		edit, ok := trivia.Reindent(gap, want, ctx.style(ref))
		out = append(out, r.withEdit(v, "align '{'", edit, ok))
	}
	if ctx.tok(closing).Kind != token.RBrace || closing <= open {
		return out
	}
	cgap := ctx.gap(closing-1, closing)
	switch {
	case cgap.StartsLine():
		if col := ctx.column(closing); col != want {
			v := r.violation(ctx, closing, fmt.Sprintf("'}' at column %d must align with '%s' at column %d", col, refText, want))
			edit, ok := trivia.Reindent(cgap, want, ctx.style(ref))
			out = append(out, r.withEdit(v, "align '}'", edit, ok))
		}
	case !t.SameLine(open, closing):
		v := r.violation(ctx, closing, "'}' must start its own line")
		edit, ok := trivia.Break(cgap, want, ctx.style(ref))
		out = append(out, r.withEdit(v, "move '}' to its own line", edit, ok))
	}
	return out
}

// case-блок выравнивается по ближайшей метке перед ним
func caseBlockBraces(t *syntax.Tree, id syntax.NodeID) (open, closing, ref syntax.TokenID, ok bool) {
	label := syntax.NoNodeID
	for _, c := range t.Children(t.Parent(id)) {
		if c == id {
			break
		}
		if k := t.Kind(c); k == syntax.CaseLabel || k == syntax.DefaultLabel {
			label = c
		}
	}
	if !label.IsValid() {
		return 0, 0, 0, false
	}
	return construct.First(t, id), construct.Last(t, id), construct.First(t, label), true
}

func lambdaBraces(t *syntax.Tree, id syntax.NodeID) (open, closing, ref syntax.TokenID, ok bool) {
	parent := t.Parent(id)
	kind := token.FatArrow
	if t.Kind(parent) == syntax.AnonymousMethod {
		kind = token.KwDelegate
	}
	ref, ok = t.ChildToken(parent, kind)
	return construct.First(t, id), construct.Last(t, id), ref, ok
}

func switchExprBraces(t *syntax.Tree, id syntax.NodeID) (open, closing, ref syntax.TokenID, ok bool) {
	ref, ok = t.ChildToken(id, token.KwSwitch)
	if !ok {
		return 0, 0, 0, false
	}
	open, ok = t.ChildToken(id, token.LBrace)
	return open, construct.Last(t, id), ref, ok
}
