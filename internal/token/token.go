package token

import (
	"cslayout/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Leading  []Trivia
	Trailing []Trivia
}

// IsLiteral reports whether the token is a numeric, character, string, boolean or null literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, CharLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool { return t.Kind.IsKeyword() }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is the identifier text (contextual keyword check).
func (t Token) Is(text string) bool { return t.Kind == Ident && t.Text == text }

// FullSpan covers the leading trivia, the token and its trailing trivia.
func (t Token) FullSpan() source.Span {
	sp := t.Span
	if len(t.Leading) > 0 {
		sp.Start = t.Leading[0].Span.Start
	}
	if len(t.Trailing) > 0 {
		sp.End = t.Trailing[len(t.Trailing)-1].Span.End
	}
	return sp
}
