package construct

import (
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// Anchor returns the reference token of a classified node: the first token
// for statements, the operator for operators, the open delimiter for lists
// and the brace for brace-bearing constructs.
func Anchor(t *syntax.Tree, id syntax.NodeID, kind Kind) syntax.TokenID {
	n := t.Node(id)
	switch kind {
	case BinaryOperator:
		ops, _ := OperatorTokens(t, id)
		return ops[0]
	case MemberAccess:
		if tok, ok := firstChildToken(t, id); ok {
			return tok
		}
	case Cast:
		if tok, ok := t.ChildToken(id, token.RParen); ok {
			return tok
		}
	case Assignment:
		if t.Kind(id) == syntax.AssignExpr {
			if tok, ok := firstChildToken(t, id); ok {
				return tok
			}
		}
	case SwitchExpression:
		if tok, ok := t.ChildToken(id, token.LBrace); ok {
			return tok
		}
	}
	return n.First
}

func firstChildToken(t *syntax.Tree, id syntax.NodeID) (syntax.TokenID, bool) {
	for _, e := range t.Node(id).Children {
		if !e.IsNode() {
			return e.Token, true
		}
	}
	return 0, false
}

// First and Last are the outermost tokens of a node.
func First(t *syntax.Tree, id syntax.NodeID) syntax.TokenID { return t.Node(id).First }

func Last(t *syntax.Tree, id syntax.NodeID) syntax.TokenID { return t.Node(id).Last }
