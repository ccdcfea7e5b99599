package rules

import (
	"fmt"
	"strings"

	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
	"cslayout/internal/trivia"
)

// split returns the keyword or operator and the first token of the value
// that must follow it on the same line.
type split func(t *syntax.Tree, id syntax.NodeID) (ref, cont syntax.TokenID, ok bool)

// sameLineRule pulls a value up to the line of the token introducing it.
type sameLineRule struct {
	meta
	target construct.Kind
	locate split
	what   string
	sep    string
}

func (r *sameLineRule) Applies(_ *Context, n Node) bool {
	return n.Kind == r.target
}

func (r *sameLineRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	ref, cont, ok := r.locate(ctx.Tree, n.ID)
	if !ok || cont != ref+1 {
		return nil
	}
	gap := ctx.gap(ref, cont)
	if !gap.HasNewline() {
		return nil
	}
	v := r.violation(ctx, cont, fmt.Sprintf("%s must be on the same line as '%s'", r.what, ctx.tok(ref).Text))
	edit, ok := trivia.Join(gap, r.sep)
	return []diag.Violation{r.withEdit(v, "join lines", edit, ok)}
}

func castOperand(t *syntax.Tree, id syntax.NodeID) (ref, cont syntax.TokenID, ok bool) {
	ref, ok = t.ChildToken(id, token.RParen)
	if !ok || ref == construct.Last(t, id) {
		return 0, 0, false
	}
	return ref, ref + 1, true
}

func returnValue(t *syntax.Tree, id syntax.NodeID) (ref, cont syntax.TokenID, ok bool) {
	ref, ok = t.ChildToken(id, token.KwReturn)
	if !ok {
		return 0, 0, false
	}
	value := t.Children(id)
	if len(value) == 0 {
		return 0, 0, false
	}
	return ref, construct.First(t, value[0]), true
}

// a = b, a >>= b, int a = b
func assignedValue(t *syntax.Tree, id syntax.NodeID) (ref, cont syntax.TokenID, ok bool) {
	n := t.Node(id)
	seen := false
	for _, e := range n.Children {
		if !e.IsNode() {
			ref, seen = e.Token, true
			continue
		}
		if seen {
			return ref, construct.First(t, e.Node), true
		}
	}
	return 0, 0, false
}

func newType(t *syntax.Tree, id syntax.NodeID) (ref, cont syntax.TokenID, ok bool) {
	ref, ok = t.ChildToken(id, token.KwNew)
	if !ok || ref == construct.Last(t, id) {
		return 0, 0, false
	}
	switch t.Token(ref + 1).Kind {
	case token.LParen, token.LBracket, token.LBrace:
		return 0, 0, false
	}
	return ref, ref + 1, true
}

// operatorRule keeps a binary operator on the line of its right operand.
type operatorRule struct {
	meta
}

func (r *operatorRule) Applies(_ *Context, n Node) bool {
	return n.Kind == construct.BinaryOperator
}

func (r *operatorRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	ops, ok := construct.OperatorTokens(t, n.ID)
	if !ok || ops[0] == 0 || int(ops[1])+1 >= len(t.Tokens) {
		return nil
	}
	left, right := ops[0]-1, ops[1]+1
	after := ctx.gap(ops[1], right)
	if !after.HasNewline() {
		return nil
	}
	var text strings.Builder
	for id := ops[0]; id <= ops[1]; id++ {
		text.WriteString(ctx.tok(id).Text)
	}
	v := r.violation(ctx, ops[0], fmt.Sprintf("operator '%s' must start the line of its right operand", text.String()))
	switch {
	case ctx.gap(left, ops[0]).HasNewline():
		// оператор на отдельной строке: подтягиваем правый операнд
		edit, ok := trivia.Join(after, " ")
		v = r.withEdit(v, "join operand", edit, ok)
	default:
		edit, ok := trivia.Relocate(ctx.tok(left), t.Tokens[ops[0]:ops[1]+1], ctx.tok(right), " ")
		v = r.withEdit(v, "move operator to next line", edit, ok)
	}
	return []diag.Violation{v}
}

// dotRule keeps '.', '?.' and '->' on the line of the member name.
type dotRule struct {
	meta
}

func (r *dotRule) Applies(_ *Context, n Node) bool {
	return n.Kind == construct.MemberAccess
}

func (r *dotRule) Evaluate(ctx *Context, n Node) []diag.Violation {
	t := ctx.Tree
	dot := construct.Anchor(t, n.ID, construct.MemberAccess)
	if dot == 0 || dot >= construct.Last(t, n.ID) {
		return nil
	}
	switch ctx.tok(dot).Kind {
	case token.Dot, token.QuestionDot, token.Arrow:
	default:
		return nil
	}
	after := ctx.gap(dot, dot+1)
	if !after.HasNewline() {
		return nil
	}
	v := r.violation(ctx, dot, fmt.Sprintf("'%s' must be on the line of the member name", ctx.tok(dot).Text))
	if ctx.gap(dot-1, dot).HasNewline() {
		edit, ok := trivia.Join(after, "")
		return []diag.Violation{r.withEdit(v, "join member name", edit, ok)}
	}
	edit, ok := trivia.Relocate(ctx.tok(dot-1), t.Tokens[dot:dot+1], ctx.tok(dot+1), "")
	return []diag.Violation{r.withEdit(v, "move '"+ctx.tok(dot).Text+"' to next line", edit, ok)}
}
