package lexer

import (
	"cslayout/internal/token"
)

// multiOps is ordered longest first so the greedy match picks "<<=" over "<<".
// '>' never combines except in ">=": the parser joins ">>" and ">>=" from
// adjacent tokens so nested generics like List<List<int>> close correctly.
var multiOps = []struct {
	text string
	kind token.Kind
}{
	{"<<=", token.ShlAssign},
	{"??=", token.QuestionQAssign},
	{"+=", token.PlusAssign},
	{"-=", token.MinusAssign},
	{"*=", token.StarAssign},
	{"/=", token.SlashAssign},
	{"%=", token.PercentAssign},
	{"&=", token.AmpAssign},
	{"|=", token.PipeAssign},
	{"^=", token.CaretAssign},
	{"==", token.EqEq},
	{"!=", token.BangEq},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"<<", token.Shl},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"??", token.QuestionQuestion},
	{"?.", token.QuestionDot},
	{"::", token.ColonColon},
	{"..", token.DotDot},
	{"->", token.Arrow},
	{"=>", token.FatArrow},
}

var singleOps = [256]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '=': token.Assign, '!': token.Bang, '<': token.Lt,
	'>': token.Gt, '&': token.Amp, '|': token.Pipe, '^': token.Caret,
	'~': token.Tilde, '?': token.Question, ':': token.Colon, ';': token.Semicolon,
	',': token.Comma, '.': token.Dot, '(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace, '[': token.LBracket, ']': token.RBracket,
	'#': token.Hash,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	// "?.5" это "?" и число, а не условный доступ
	if lx.cursor.HasPrefix("?.") && isDec(lx.cursor.At(2)) {
		lx.cursor.Bump()
		return lx.emit(token.Question, start)
	}
	for _, op := range multiOps {
		if lx.cursor.HasPrefix(op.text) {
			lx.cursor.Skip(len(op.text))
			return lx.emit(op.kind, start)
		}
	}

	if kind := singleOps[lx.cursor.Bump()]; kind != token.Invalid {
		return lx.emit(kind, start)
	}
	// '`', управляющие байты и прочее
	sp := lx.cursor.SpanFrom(start)
	lx.report(KindUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
