package lexer

import (
	"cslayout/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\f', '\v' и одиночный '\r' коалесцируются в один TriviaSpace
//   - каждый перевод строки ('\n' или "\r\n") — отдельный TriviaNewline
//   - //... до \n -> TriviaLineComment, ///... -> TriviaDocComment
//   - /* ... */ -> TriviaBlockComment (без вложенности; если не закрыт — репорт и обрезаем на EOF)
//   - '#' первым на строке -> TriviaDirective до конца строки
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = nil
	for !lx.cursor.EOF() {
		if lx.scanSpaceOrNewline(&lx.hold) {
			continue
		}
		b := lx.cursor.Peek()
		if b == '/' && lx.scanComment(&lx.hold) {
			continue
		}
		if b == '#' && lx.atLineStart() {
			lx.scanDirective()
			continue
		}
		break
	}
}

// collectTrailingTrivia собирает пробелы и комментарии после токена до
// первого перевода строки включительно.
func (lx *Lexer) collectTrailingTrivia() []token.Trivia {
	var out []token.Trivia
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || (b == '\r' && lx.crlf()) {
			lx.scanSpaceOrNewline(&out)
			return out
		}
		if isSpaceByte(b) {
			lx.scanSpaceOrNewline(&out)
			continue
		}
		if b == '/' && lx.scanComment(&out) {
			continue
		}
		break
	}
	return out
}

// scanSpaceOrNewline съедает либо один перевод строки, либо серию пробелов.
func (lx *Lexer) scanSpaceOrNewline(dst *[]token.Trivia) bool {
	start := lx.cursor.Mark()
	b := lx.cursor.Peek()
	switch {
	case b == '\n':
		lx.cursor.Bump()
	case b == '\r' && lx.crlf():
		lx.cursor.Bump()
		lx.cursor.Bump()
	case isSpaceByte(b):
		for !lx.cursor.EOF() && isSpaceByte(lx.cursor.Peek()) && !lx.crlf() {
			lx.cursor.Bump()
		}
		lx.push(dst, token.TriviaSpace, start)
		return true
	default:
		return false
	}
	lx.push(dst, token.TriviaNewline, start)
	return true
}

// //... , ///... , /*...*/
func (lx *Lexer) scanComment(dst *[]token.Trivia) bool {
	start := lx.cursor.Mark()
	if lx.cursor.Peek() != '/' {
		return false
	}
	switch lx.cursor.At(1) {
	case '/':
		kind := token.TriviaLineComment
		// "///" — doc-комментарий, но "////" — обычный
		if lx.cursor.HasPrefix("///") && lx.cursor.At(3) != '/' {
			kind = token.TriviaDocComment
		}
		lx.cursor.Skip(2)
		lx.skipToLineEnd()
		lx.push(dst, kind, start)
		return true

	case '*':
		lx.cursor.Skip(2)
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.HasPrefix("*/") {
				lx.cursor.Skip(2)
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		if !closed {
			lx.report(KindUnterminatedBlock, sp, "unterminated block comment")
		}
		*dst = append(*dst, token.Trivia{Kind: token.TriviaBlockComment, Span: sp, Text: lx.text(sp)})
		return true
	}
	return false
}

// #if/#region/#pragma... — вся строка без перевода строки.
func (lx *Lexer) scanDirective() {
	start := lx.cursor.Mark()
	lx.skipToLineEnd()
	lx.push(&lx.hold, token.TriviaDirective, start)
}

func (lx *Lexer) skipToLineEnd() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || (b == '\r' && lx.crlf()) {
			return
		}
		lx.cursor.Bump()
	}
}

// atLineStart: перед курсором на этой строке только пробелы.
func (lx *Lexer) atLineStart() bool {
	for i := int(lx.cursor.Off) - 1; i >= 0; i-- {
		switch lx.file.Content[i] {
		case ' ', '\t', '\f', '\v', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (lx *Lexer) crlf() bool {
	return lx.cursor.HasPrefix("\r\n")
}

func (lx *Lexer) push(dst *[]token.Trivia, kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	*dst = append(*dst, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\v' || b == '\r'
}
