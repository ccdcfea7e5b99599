package construct

// Kind — вид конструкции, по которому выбираются правила.
type Kind uint8

const (
	None Kind = iota
	UsingDirective
	LocalDeclaration
	TryStatement
	ForeachStatement
	ForStatement
	WhileStatement
	DoStatement
	BreakStatement
	ThrowStatement
	GuardClause
	ParameterList
	ArgumentList
	CaseBlock
	LambdaBody
	BinaryOperator
	MemberAccess
	Cast
	Return
	Assignment
	NewExpression
	Initializer
	SwitchExpression
	Block
	kindEnd
)

var kindNames = [...]string{
	None:             "None",
	UsingDirective:   "UsingDirective",
	LocalDeclaration: "LocalDeclaration",
	TryStatement:     "TryStatement",
	ForeachStatement: "ForeachStatement",
	ForStatement:     "ForStatement",
	WhileStatement:   "WhileStatement",
	DoStatement:      "DoStatement",
	BreakStatement:   "BreakStatement",
	ThrowStatement:   "ThrowStatement",
	GuardClause:      "GuardClause",
	ParameterList:    "ParameterList",
	ArgumentList:     "ArgumentList",
	CaseBlock:        "CaseBlock",
	LambdaBody:       "LambdaBody",
	BinaryOperator:   "BinaryOperator",
	MemberAccess:     "MemberAccess",
	Cast:             "Cast",
	Return:           "Return",
	Assignment:       "Assignment",
	NewExpression:    "NewExpression",
	Initializer:      "Initializer",
	SwitchExpression: "SwitchExpression",
	Block:            "Block",
}

func (k Kind) String() string {
	if k < kindEnd {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Describe is the lower-case phrase used in messages ("try statement").
func (k Kind) Describe() string {
	switch k {
	case UsingDirective:
		return "using directive"
	case LocalDeclaration:
		return "local declaration"
	case TryStatement:
		return "try statement"
	case ForeachStatement:
		return "foreach statement"
	case ForStatement:
		return "for statement"
	case WhileStatement:
		return "while statement"
	case DoStatement:
		return "do-while statement"
	case BreakStatement:
		return "break statement"
	case ThrowStatement:
		return "throw statement"
	case GuardClause:
		return "guard clause"
	case ParameterList:
		return "parameter list"
	case ArgumentList:
		return "argument list"
	case CaseBlock:
		return "case block"
	case LambdaBody:
		return "lambda body"
	case BinaryOperator:
		return "binary operator"
	case MemberAccess:
		return "member access"
	case Cast:
		return "cast"
	case Return:
		return "return statement"
	case Assignment:
		return "assignment"
	case NewExpression:
		return "new expression"
	case Initializer:
		return "initializer"
	case SwitchExpression:
		return "switch expression"
	case Block:
		return "block"
	}
	return "construct"
}

// IsStatement reports kinds that occupy a statement or directive slot and
// take part in blank-line rules.
func (k Kind) IsStatement() bool {
	return k >= UsingDirective && k <= GuardClause || k == Return
}
