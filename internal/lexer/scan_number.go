package lexer

import (
	"cslayout/internal/token"
)

// scanNumber: 123, 1_000, 0xFF, 0b1010, 1.5, .5, 1e-3, 10UL, 2.0f, 1m.
// Точка считается частью числа только если за ней цифра ("1..2" — диапазон).
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if b1 := lx.cursor.At(1) | 0x20; lx.cursor.Peek() == '0' && (b1 == 'x' || b1 == 'b') {
		lx.cursor.Skip(2)
		digit := isHex
		if b1 == 'b' {
			digit = isBin
		}
		n := lx.eatDigits(digit)
		lx.eatIntSuffix()
		if n == 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.report(KindBadNumber, sp, "expected digits after radix prefix")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		return lx.emit(token.IntLit, start)
	}

	lx.eatDigits(isDec)
	if lx.isNumberAfterDot() {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
		kind = token.RealLit
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if c := lx.cursor.Peek(); c == '+' || c == '-' {
			lx.cursor.Bump()
		}
		if lx.eatDigits(isDec) == 0 {
			lx.cursor.Reset(mark)
		} else {
			kind = token.RealLit
		}
	}
	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		lx.cursor.Bump()
		kind = token.RealLit
	default:
		if kind == token.IntLit {
			lx.eatIntSuffix()
		}
	}
	return lx.emit(kind, start)
}

// eatDigits съедает цифры и разделители '_' и возвращает число цифр.
func (lx *Lexer) eatDigits(digit func(byte) bool) int {
	n := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case digit(b):
			n++
		case b == '_':
		default:
			return n
		}
		lx.cursor.Bump()
	}
	return n
}

// u, l, ul, lu в любом регистре.
func (lx *Lexer) eatIntSuffix() {
	for i := 0; i < 2; i++ {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
