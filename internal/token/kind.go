package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token (including contextual keywords).
	Ident

	kwBegin
	KwAbstract
	KwAs
	KwBase
	KwBool
	KwBreak
	KwByte
	KwCase
	KwCatch
	KwChar
	KwChecked
	KwClass
	KwConst
	KwContinue
	KwDecimal
	KwDefault
	KwDelegate
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwEvent
	KwExplicit
	KwExtern
	KwFalse
	KwFinally
	KwFixed
	KwFloat
	KwFor
	KwForeach
	KwGoto
	KwIf
	KwImplicit
	KwIn
	KwInt
	KwInterface
	KwInternal
	KwIs
	KwLock
	KwLong
	KwNamespace
	KwNew
	KwNull
	KwObject
	KwOperator
	KwOut
	KwOverride
	KwParams
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRef
	KwReturn
	KwSbyte
	KwSealed
	KwShort
	KwSizeof
	KwStackalloc
	KwStatic
	KwString
	KwStruct
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwUint
	KwUlong
	KwUnchecked
	KwUnsafe
	KwUshort
	KwUsing
	KwVirtual
	KwVoid
	KwVolatile
	KwWhile
	kwEnd

	// IntLit represents an integer literal, including hex and binary forms.
	IntLit
	// RealLit represents a floating point literal.
	RealLit
	// CharLit represents a character literal.
	CharLit
	// StringLit represents regular, verbatim, raw and interpolated strings.
	StringLit

	Plus             // +
	Minus            // -
	Star             // *
	Slash            // /
	Percent          // %
	Assign           // =
	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	SlashAssign      // /=
	PercentAssign    // %=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	QuestionQAssign  // ??=
	EqEq             // ==
	Bang             // !
	BangEq           // !=
	Lt               // <
	LtEq             // <=
	Gt               // > (shift right is two adjacent Gt tokens)
	GtEq             // >=
	Shl              // <<
	Amp              // &
	Pipe             // |
	Caret            // ^
	Tilde            // ~
	AndAnd           // &&
	OrOr             // ||
	PlusPlus         // ++
	MinusMinus       // --
	Question         // ?
	QuestionQuestion // ??
	QuestionDot      // ?.
	Colon            // :
	ColonColon       // ::
	Semicolon        // ;
	Comma            // ,
	Dot              // .
	DotDot           // ..
	Arrow            // ->
	FatArrow         // =>
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]
	At               // @ (stray)
	Hash             // # (stray, outside a directive line)
)

var kindNames = map[Kind]string{
	Invalid:          "Invalid",
	EOF:              "EOF",
	Ident:            "Ident",
	IntLit:           "IntLit",
	RealLit:          "RealLit",
	CharLit:          "CharLit",
	StringLit:        "StringLit",
	Plus:             "+",
	Minus:            "-",
	Star:             "*",
	Slash:            "/",
	Percent:          "%",
	Assign:           "=",
	PlusAssign:       "+=",
	MinusAssign:      "-=",
	StarAssign:       "*=",
	SlashAssign:      "/=",
	PercentAssign:    "%=",
	AmpAssign:        "&=",
	PipeAssign:       "|=",
	CaretAssign:      "^=",
	ShlAssign:        "<<=",
	QuestionQAssign:  "??=",
	EqEq:             "==",
	Bang:             "!",
	BangEq:           "!=",
	Lt:               "<",
	LtEq:             "<=",
	Gt:               ">",
	GtEq:             ">=",
	Shl:              "<<",
	Amp:              "&",
	Pipe:             "|",
	Caret:            "^",
	Tilde:            "~",
	AndAnd:           "&&",
	OrOr:             "||",
	PlusPlus:         "++",
	MinusMinus:       "--",
	Question:         "?",
	QuestionQuestion: "??",
	QuestionDot:      "?.",
	Colon:            ":",
	ColonColon:       "::",
	Semicolon:        ";",
	Comma:            ",",
	Dot:              ".",
	DotDot:           "..",
	Arrow:            "->",
	FatArrow:         "=>",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	At:               "@",
	Hash:             "#",
}

// String returns the punctuation text for operators, the keyword text for
// keywords and a descriptive name otherwise.
func (k Kind) String() string {
	if k.IsKeyword() {
		return keywordText[k]
	}
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved C# keyword.
func (k Kind) IsKeyword() bool {
	return k > kwBegin && k < kwEnd
}

// IsAssignment reports whether k is '=' or a compound assignment operator.
func (k Kind) IsAssignment() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign,
		AmpAssign, PipeAssign, CaretAssign, ShlAssign, QuestionQAssign:
		return true
	default:
		return false
	}
}

// IsPredefinedType reports whether k names a built-in type keyword.
func (k Kind) IsPredefinedType() bool {
	switch k {
	case KwBool, KwByte, KwChar, KwDecimal, KwDouble, KwFloat, KwInt, KwLong, KwObject,
		KwSbyte, KwShort, KwString, KwUint, KwUlong, KwUshort, KwVoid:
		return true
	default:
		return false
	}
}

// IsModifier reports whether k can appear in a declaration modifier list.
func (k Kind) IsModifier() bool {
	switch k {
	case KwAbstract, KwConst, KwExtern, KwInternal, KwNew, KwOverride, KwPrivate, KwProtected,
		KwPublic, KwReadonly, KwSealed, KwStatic, KwUnsafe, KwVirtual, KwVolatile, KwFixed:
		return true
	default:
		return false
	}
}
