package trivia

import (
	"strings"

	"cslayout/internal/source"
	"cslayout/internal/token"
)

// Gap is the trivia between two adjacent tokens.
type Gap struct {
	File  source.FileID
	Start uint32 // end of the left token (or start of file)
	End   uint32 // start of the right token
	Items []token.Trivia
}

// Between returns the gap separating left and right.
func Between(left, right *token.Token) Gap {
	items := make([]token.Trivia, 0, len(left.Trailing)+len(right.Leading))
	items = append(items, left.Trailing...)
	items = append(items, right.Leading...)
	return Gap{File: right.Span.File, Start: left.Span.End, End: right.Span.Start, Items: items}
}

func (g Gap) Span() source.Span {
	return source.Span{File: g.File, Start: g.Start, End: g.End}
}

func (g Gap) Text() string {
	var b strings.Builder
	for _, it := range g.Items {
		b.WriteString(it.Text)
	}
	return b.String()
}

// NewlineCount is the number of line breaks in the gap.
func (g Gap) NewlineCount() int {
	n := 0
	for _, it := range g.Items {
		if it.Kind == token.TriviaNewline {
			n++
		}
	}
	return n
}

// HasNewline reports whether the right token starts a later line than the left one ends on.
func (g Gap) HasNewline() bool {
	return g.NewlineCount() > 0
}

// HasComment reports whether the gap holds a comment or a directive.
func (g Gap) HasComment() bool {
	for _, it := range g.Items {
		if it.Kind.IsComment() {
			return true
		}
	}
	return false
}

// HasBlankLine reports whether some line inside the gap holds only whitespace.
// A comment line between the tokens is not blank.
func (g Gap) HasBlankLine() bool {
	seenNewline, lineBlank := false, false
	for _, it := range g.Items {
		switch {
		case it.Kind == token.TriviaNewline:
			if seenNewline && lineBlank {
				return true
			}
			seenNewline, lineBlank = true, true
		case it.Kind.IsComment():
			lineBlank = false
		}
	}
	return false
}

// lastNewline returns the index of the last Newline item or -1.
func (g Gap) lastNewline() int {
	for i := len(g.Items) - 1; i >= 0; i-- {
		if g.Items[i].Kind == token.TriviaNewline {
			return i
		}
	}
	return -1
}

// StartsLine reports whether only whitespace precedes the right token on its line.
func (g Gap) StartsLine() bool {
	last := g.lastNewline()
	if last < 0 {
		return false
	}
	for _, it := range g.Items[last+1:] {
		if it.Kind != token.TriviaSpace {
			return false
		}
	}
	return true
}
