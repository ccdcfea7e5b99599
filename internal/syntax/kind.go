package syntax

// Kind is the syntactic category of a node.
type Kind uint8

const (
	KindInvalid Kind = iota
	CompilationUnit
	// Bad covers a region the parser could not understand. Layout rules never
	// look inside it.
	Bad

	// объявления
	ExternAlias
	UsingDirective
	NamespaceDecl
	FileNamespaceDecl
	TypeDecl // class, struct, interface, record
	EnumDecl
	EnumMember
	DelegateDecl
	MethodDecl // методы, операторы, конверсии, деструкторы
	ConstructorDecl
	PropertyDecl
	IndexerDecl
	EventDecl
	FieldDecl
	AccessorList
	Accessor
	AttributeList
	Attribute
	ParameterList
	BracketedParameterList
	Parameter
	TypeParameterList
	BaseList
	ConstraintClause
	ArrowClause
	ConstructorInitializer

	// операторы
	Block
	LocalDeclStmt
	VarDeclaration
	VarDeclarator
	EqualsValue
	ExpressionStmt
	IfStmt
	ElseClause
	ForStmt
	ForeachStmt
	WhileStmt
	DoStmt
	TryStmt
	CatchClause
	CatchDecl
	CatchFilter
	FinallyClause
	SwitchStmt
	SwitchSection
	CaseLabel
	DefaultLabel
	BreakStmt
	ContinueStmt
	ReturnStmt
	ThrowStmt
	YieldStmt
	UsingStmt
	LockStmt
	FixedStmt
	CheckedStmt
	UnsafeStmt
	GotoStmt
	LabeledStmt
	EmptyStmt
	LocalFunctionStmt

	// типы и выражения
	Name
	GenericName
	QualifiedName
	AliasQualifiedName
	PredefinedType
	ArrayType
	NullableType
	PointerType
	TupleType
	TypeArgumentList
	RankSpecifier
	Literal
	ThisExpr
	BaseExpr
	ParenExpr
	TupleExpr
	MemberAccess
	ConditionalAccess
	MemberBinding
	ElementBinding
	ElementAccess
	Invocation
	ArgumentList
	BracketedArgumentList
	Argument
	BinaryExpr
	UnaryExpr
	PostfixExpr
	AssignExpr
	ConditionalExpr
	CastExpr
	LambdaExpr
	AnonymousMethod
	ObjectCreation
	ImplicitObjectCreation
	ArrayCreation
	ImplicitArrayCreation
	AnonymousObjectCreation
	StackAllocExpr
	InitializerExpr
	SwitchExpr
	SwitchArm
	WhenClause
	Pattern
	ThrowExpr
	DeclarationExpr
	RangeExpr
	KeywordCall // typeof(T), default(T), sizeof(T), nameof-less checked(x)
	RefExpr
	QueryExpr
	WithExpr
	kindEnd
)

var kindNames = [...]string{
	KindInvalid:             "Invalid",
	CompilationUnit:         "CompilationUnit",
	Bad:                     "Bad",
	ExternAlias:             "ExternAlias",
	UsingDirective:          "UsingDirective",
	NamespaceDecl:           "NamespaceDecl",
	FileNamespaceDecl:       "FileNamespaceDecl",
	TypeDecl:                "TypeDecl",
	EnumDecl:                "EnumDecl",
	EnumMember:              "EnumMember",
	DelegateDecl:            "DelegateDecl",
	MethodDecl:              "MethodDecl",
	ConstructorDecl:         "ConstructorDecl",
	PropertyDecl:            "PropertyDecl",
	IndexerDecl:             "IndexerDecl",
	EventDecl:               "EventDecl",
	FieldDecl:               "FieldDecl",
	AccessorList:            "AccessorList",
	Accessor:                "Accessor",
	AttributeList:           "AttributeList",
	Attribute:               "Attribute",
	ParameterList:           "ParameterList",
	BracketedParameterList:  "BracketedParameterList",
	Parameter:               "Parameter",
	TypeParameterList:       "TypeParameterList",
	BaseList:                "BaseList",
	ConstraintClause:        "ConstraintClause",
	ArrowClause:             "ArrowClause",
	ConstructorInitializer:  "ConstructorInitializer",
	Block:                   "Block",
	LocalDeclStmt:           "LocalDeclStmt",
	VarDeclaration:          "VarDeclaration",
	VarDeclarator:           "VarDeclarator",
	EqualsValue:             "EqualsValue",
	ExpressionStmt:          "ExpressionStmt",
	IfStmt:                  "IfStmt",
	ElseClause:              "ElseClause",
	ForStmt:                 "ForStmt",
	ForeachStmt:             "ForeachStmt",
	WhileStmt:               "WhileStmt",
	DoStmt:                  "DoStmt",
	TryStmt:                 "TryStmt",
	CatchClause:             "CatchClause",
	CatchDecl:               "CatchDecl",
	CatchFilter:             "CatchFilter",
	FinallyClause:           "FinallyClause",
	SwitchStmt:              "SwitchStmt",
	SwitchSection:           "SwitchSection",
	CaseLabel:               "CaseLabel",
	DefaultLabel:            "DefaultLabel",
	BreakStmt:               "BreakStmt",
	ContinueStmt:            "ContinueStmt",
	ReturnStmt:              "ReturnStmt",
	ThrowStmt:               "ThrowStmt",
	YieldStmt:               "YieldStmt",
	UsingStmt:               "UsingStmt",
	LockStmt:                "LockStmt",
	FixedStmt:               "FixedStmt",
	CheckedStmt:             "CheckedStmt",
	UnsafeStmt:              "UnsafeStmt",
	GotoStmt:                "GotoStmt",
	LabeledStmt:             "LabeledStmt",
	EmptyStmt:               "EmptyStmt",
	LocalFunctionStmt:       "LocalFunctionStmt",
	Name:                    "Name",
	GenericName:             "GenericName",
	QualifiedName:           "QualifiedName",
	AliasQualifiedName:      "AliasQualifiedName",
	PredefinedType:          "PredefinedType",
	ArrayType:               "ArrayType",
	NullableType:            "NullableType",
	PointerType:             "PointerType",
	TupleType:               "TupleType",
	TypeArgumentList:        "TypeArgumentList",
	RankSpecifier:           "RankSpecifier",
	Literal:                 "Literal",
	ThisExpr:                "ThisExpr",
	BaseExpr:                "BaseExpr",
	ParenExpr:               "ParenExpr",
	TupleExpr:               "TupleExpr",
	MemberAccess:            "MemberAccess",
	ConditionalAccess:       "ConditionalAccess",
	MemberBinding:           "MemberBinding",
	ElementBinding:          "ElementBinding",
	ElementAccess:           "ElementAccess",
	Invocation:              "Invocation",
	ArgumentList:            "ArgumentList",
	BracketedArgumentList:   "BracketedArgumentList",
	Argument:                "Argument",
	BinaryExpr:              "BinaryExpr",
	UnaryExpr:               "UnaryExpr",
	PostfixExpr:             "PostfixExpr",
	AssignExpr:              "AssignExpr",
	ConditionalExpr:         "ConditionalExpr",
	CastExpr:                "CastExpr",
	LambdaExpr:              "LambdaExpr",
	AnonymousMethod:         "AnonymousMethod",
	ObjectCreation:          "ObjectCreation",
	ImplicitObjectCreation:  "ImplicitObjectCreation",
	ArrayCreation:           "ArrayCreation",
	ImplicitArrayCreation:   "ImplicitArrayCreation",
	AnonymousObjectCreation: "AnonymousObjectCreation",
	StackAllocExpr:          "StackAllocExpr",
	InitializerExpr:         "InitializerExpr",
	SwitchExpr:              "SwitchExpr",
	SwitchArm:               "SwitchArm",
	WhenClause:              "WhenClause",
	Pattern:                 "Pattern",
	ThrowExpr:               "ThrowExpr",
	DeclarationExpr:         "DeclarationExpr",
	RangeExpr:               "RangeExpr",
	KeywordCall:             "KeywordCall",
	RefExpr:                 "RefExpr",
	QueryExpr:               "QueryExpr",
	WithExpr:                "WithExpr",
}

func (k Kind) String() string {
	if k < kindEnd {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsStatement reports whether k is a statement kind that can appear in a block.
func (k Kind) IsStatement() bool {
	return (k >= Block && k <= LocalFunctionStmt &&
		k != VarDeclaration && k != VarDeclarator && k != EqualsValue &&
		k != ElseClause && k != CatchClause && k != CatchDecl && k != CatchFilter &&
		k != FinallyClause && k != SwitchSection && k != CaseLabel && k != DefaultLabel)
}

// IsMember reports whether k is a namespace or type member declaration.
func (k Kind) IsMember() bool {
	switch k {
	case NamespaceDecl, FileNamespaceDecl, TypeDecl, EnumDecl, DelegateDecl, MethodDecl,
		ConstructorDecl, PropertyDecl, IndexerDecl, EventDecl, FieldDecl:
		return true
	default:
		return false
	}
}
