package construct

import (
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

type candidate struct {
	kind  Kind
	match func(t *syntax.Tree, id syntax.NodeID) bool
}

// candidates — порядок важен: при совпадении нескольких видов выигрывает
// первый (guard clause раньше обычного выражения, case block раньше block).
var candidates = []candidate{
	{GuardClause, isGuardClause},
	{UsingDirective, nodeKind(syntax.UsingDirective)},
	{LocalDeclaration, nodeKind(syntax.LocalDeclStmt)},
	{TryStatement, nodeKind(syntax.TryStmt)},
	{ForeachStatement, nodeKind(syntax.ForeachStmt)},
	{ForStatement, nodeKind(syntax.ForStmt)},
	{WhileStatement, nodeKind(syntax.WhileStmt)},
	{DoStatement, nodeKind(syntax.DoStmt)},
	{BreakStatement, nodeKind(syntax.BreakStmt)},
	{ThrowStatement, nodeKind(syntax.ThrowStmt)},
	{Return, nodeKind(syntax.ReturnStmt)},
	{CaseBlock, isCaseBlock},
	{LambdaBody, isLambdaBody},
	{Block, nodeKind(syntax.Block)},
	{ParameterList, nodeKind(syntax.ParameterList, syntax.BracketedParameterList)},
	{ArgumentList, nodeKind(syntax.ArgumentList, syntax.BracketedArgumentList)},
	{BinaryOperator, isBinaryOperator},
	{MemberAccess, isMemberAccess},
	{Cast, nodeKind(syntax.CastExpr)},
	{Assignment, isAssignment},
	{NewExpression, nodeKind(syntax.ObjectCreation, syntax.ArrayCreation)},
	{Initializer, nodeKind(syntax.InitializerExpr)},
	{SwitchExpression, nodeKind(syntax.SwitchExpr)},
}

// Classify returns the construct kind of id. Bad nodes and nodes no rule
// targets yield false.
func Classify(t *syntax.Tree, id syntax.NodeID) (Kind, bool) {
	n := t.Node(id)
	if n == nil || n.Kind == syntax.Bad {
		return None, false
	}
	for _, c := range candidates {
		if c.match(t, id) {
			return c.kind, true
		}
	}
	return None, false
}

// Is reports whether id classifies as kind.
func Is(t *syntax.Tree, id syntax.NodeID, kind Kind) bool {
	k, ok := Classify(t, id)
	return ok && k == kind
}

func nodeKind(kinds ...syntax.Kind) func(*syntax.Tree, syntax.NodeID) bool {
	return func(t *syntax.Tree, id syntax.NodeID) bool {
		k := t.Kind(id)
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}
}

// блок, стоящий прямо в секции switch
func isCaseBlock(t *syntax.Tree, id syntax.NodeID) bool {
	return t.Kind(id) == syntax.Block && t.Kind(t.Parent(id)) == syntax.SwitchSection
}

func isLambdaBody(t *syntax.Tree, id syntax.NodeID) bool {
	if t.Kind(id) != syntax.Block {
		return false
	}
	parent := t.Kind(t.Parent(id))
	return parent == syntax.LambdaExpr || parent == syntax.AnonymousMethod
}

func isBinaryOperator(t *syntax.Tree, id syntax.NodeID) bool {
	if t.Kind(id) != syntax.BinaryExpr {
		return false
	}
	_, ok := OperatorTokens(t, id)
	return ok
}

func isMemberAccess(t *syntax.Tree, id syntax.NodeID) bool {
	switch t.Kind(id) {
	case syntax.MemberAccess:
		return true
	case syntax.ConditionalAccess:
		// a?.b, но не a?[i]
		_, ok := t.ChildToken(id, token.QuestionDot)
		return ok
	}
	return false
}

// присваивание или инициализатор объявления: x = 1, int x = 1
func isAssignment(t *syntax.Tree, id syntax.NodeID) bool {
	switch t.Kind(id) {
	case syntax.AssignExpr:
		return true
	case syntax.EqualsValue:
		return t.Kind(t.Parent(id)) == syntax.VarDeclarator
	}
	return false
}

// OperatorTokens returns the first and last token of the operator of a
// binary expression; '>>' spans two tokens.
func OperatorTokens(t *syntax.Tree, id syntax.NodeID) ([2]syntax.TokenID, bool) {
	var ops []syntax.TokenID
	for _, e := range t.Node(id).Children {
		if !e.IsNode() {
			ops = append(ops, e.Token)
		}
	}
	if len(ops) == 0 {
		return [2]syntax.TokenID{}, false
	}
	return [2]syntax.TokenID{ops[0], ops[len(ops)-1]}, true
}
