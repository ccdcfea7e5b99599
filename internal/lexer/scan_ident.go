package lexer

import (
	"cslayout/internal/token"
)

// scanIdentOrKeyword читает идентификатор (ASCII fast-path, далее Unicode)
// и сверяет его с таблицей ключевых слов. Контекстные слова (var, await,
// nameof, when...) остаются Ident.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.eatIdentBody() {
		// не буква: одиночный неизвестный символ
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.report(KindUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	tok := lx.emit(token.Ident, start)
	if kw, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = kw
	}
	return tok
}

// eatIdentBody съедает start+continue* и сообщает, был ли хоть один символ.
func (lx *Lexer) eatIdentBody() bool {
	r, sz := lx.peekRune()
	if sz == 0 || !isIdentStartRune(r) {
		return false
	}
	lx.bumpRune()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}
	return true
}

// scanAt: @"verbatim", @$"...", @ident, либо одиночный '@'.
func (lx *Lexer) scanAt() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() == '@' {
		switch b1 := lx.cursor.At(1); {
		case b1 == '"':
			lx.cursor.Bump()
			return lx.finishQuoted(start, quoteVerbatim)
		case b1 == '$':
			lx.cursor.Bump()
			lx.cursor.Bump()
			if lx.cursor.Peek() == '"' {
				return lx.finishQuoted(start, quoteVerbatim|quoteInterp)
			}
			lx.cursor.Reset(start)
		default:
			lx.cursor.Bump()
			if lx.eatIdentBody() {
				// @class — идентификатор, не ключевое слово
				return lx.emit(token.Ident, start)
			}
			lx.cursor.Reset(start)
		}
	}
	lx.cursor.Bump()
	return lx.emit(token.At, start)
}
