package lexer

import (
	"unicode"
	"unicode/utf8"
)

// utf8RuneSelf: байты ниже него однобайтовые руны.
const utf8RuneSelf = utf8.RuneSelf

// peekRune decodes the rune under the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	switch b := lx.cursor.Peek(); {
	case lx.cursor.EOF():
		return utf8.RuneError, 0
	case b < utf8RuneSelf:
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
}

func (lx *Lexer) bumpRune() {
	_, size := lx.peekRune()
	lx.cursor.Skip(size)
}

func isIdentStartByte(b byte) bool {
	return b == '_' || 'a' <= b|0x20 && b|0x20 <= 'z'
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

func isIdentStartRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

// isIdentContinueRune also admits combining marks and connector punctuation.
func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }
func isBin(b byte) bool { return b == '0' || b == '1' }
func isHex(b byte) bool { return isDec(b) || 'a' <= b|0x20 && b|0x20 <= 'f' }

// isNumberAfterDot reports a fraction without integer part, as in ".5".
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.At(1))
}
