package lexer

import (
	"cslayout/internal/token"
)

type quoteFlags uint8

const (
	quoteVerbatim quoteFlags = 1 << iota // @"..."; "" — экранированная кавычка
	quoteInterp                          // $"..."; {выражение}, {{ — экранированная скобка
)

type quoteEnd uint8

const (
	quoteClosed quoteEnd = iota
	quoteNewline
	quoteEOF
)

// "..." и """raw"""
func (lx *Lexer) scanString() token.Token {
	return lx.finishQuoted(lx.cursor.Mark(), 0)
}

// $"...", $@"...", $$"""...""" ; иначе '$' — неизвестный символ.
func (lx *Lexer) scanDollar() token.Token {
	start := lx.cursor.Mark()
	for lx.cursor.Peek() == '$' {
		lx.cursor.Bump()
	}
	flags := quoteInterp
	if lx.cursor.Peek() == '@' {
		lx.cursor.Bump()
		flags |= quoteVerbatim
	}
	if lx.cursor.Peek() == '"' {
		return lx.finishQuoted(start, flags)
	}
	lx.cursor.Reset(start)
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.report(KindUnknownChar, sp, "unknown character '$'")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// finishQuoted: курсор стоит на открывающей кавычке, префикс уже съеден.
func (lx *Lexer) finishQuoted(start Mark, flags quoteFlags) token.Token {
	if lx.cursor.HasPrefix(`"""`) {
		return lx.finishRaw(start)
	}
	lx.cursor.Bump() // opening '"'
	switch lx.skipQuotedBody(flags) {
	case quoteNewline:
		sp := lx.cursor.SpanFrom(start)
		lx.report(KindNewlineInString, sp, "newline in string literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	case quoteEOF:
		sp := lx.cursor.SpanFrom(start)
		lx.report(KindUnterminatedString, sp, "unterminated string literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(token.StringLit, start)
}

// skipQuotedBody съедает тело строки после открывающей кавычки вместе с
// закрывающей. Перевод строки в обычной строке не съедается.
func (lx *Lexer) skipQuotedBody(flags quoteFlags) quoteEnd {
	verbatim := flags&quoteVerbatim != 0
	interp := flags&quoteInterp != 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			if verbatim && lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			return quoteClosed
		case b == '\\' && !verbatim:
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				return quoteEOF
			}
			if c := lx.cursor.Peek(); c == '\n' || c == '\r' {
				return quoteNewline
			}
			lx.bumpRune()
		case (b == '\n' || b == '\r') && !verbatim:
			return quoteNewline
		case b == '{' && interp:
			lx.cursor.Bump()
			if lx.cursor.Peek() == '{' {
				lx.cursor.Bump()
				continue
			}
			if !lx.skipHole() {
				return quoteEOF
			}
		default:
			lx.bumpRune()
		}
	}
	return quoteEOF
}

// skipHole съедает выражение интерполяции до парной '}'. Вложенные строки и
// символы пропускаются целиком, чтобы их скобки не сбивали счёт.
func (lx *Lexer) skipHole() bool {
	depth := 1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			depth--
			lx.cursor.Bump()
			if depth == 0 {
				return true
			}
		case '"', '@', '$':
			if !lx.skipNestedString() {
				lx.cursor.Bump()
			}
		case '\'':
			lx.scanChar()
		default:
			lx.bumpRune()
		}
	}
	return false
}

// skipNestedString съедает строковый литерал любого вида внутри дырки.
func (lx *Lexer) skipNestedString() bool {
	start := lx.cursor.Mark()
	var flags quoteFlags
	for {
		switch lx.cursor.Peek() {
		case '$':
			flags |= quoteInterp
			lx.cursor.Bump()
			continue
		case '@':
			flags |= quoteVerbatim
			lx.cursor.Bump()
			continue
		}
		break
	}
	if lx.cursor.Peek() != '"' {
		lx.cursor.Reset(start)
		return false
	}
	if lx.cursor.HasPrefix(`"""`) {
		lx.skipRaw()
		return true
	}
	lx.cursor.Bump()
	lx.skipQuotedBody(flags)
	return true
}

// """...""" : закрывается серией кавычек не короче открывающей.
func (lx *Lexer) finishRaw(start Mark) token.Token {
	if !lx.skipRaw() {
		sp := lx.cursor.SpanFrom(start)
		lx.report(KindUnterminatedString, sp, "unterminated raw string literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return lx.emit(token.StringLit, start)
}

func (lx *Lexer) skipRaw() bool {
	open := 0
	for lx.cursor.Peek() == '"' {
		lx.cursor.Bump()
		open++
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() != '"' {
			lx.bumpRune()
			continue
		}
		run := 0
		for lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			run++
		}
		if run >= open {
			return true
		}
	}
	return false
}

// 'x', '\n', 'A'
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\'':
			lx.cursor.Bump()
			return lx.emit(token.CharLit, start)
		case b == '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.bumpRune()
			}
		case b == '\n' || b == '\r':
			sp := lx.cursor.SpanFrom(start)
			lx.report(KindUnterminatedChar, sp, "newline in character literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(KindUnterminatedChar, sp, "unterminated character literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
