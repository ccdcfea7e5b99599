package trivia

import (
	"strings"

	"cslayout/internal/diag"
	"cslayout/internal/source"
	"cslayout/internal/token"
)

// InsertBlankLine returns the edit that separates the two tokens of g by one
// blank line. When they already sit on different lines a single "\n" goes
// right after the left line's break, in front of any comment above the right
// token. When they share a line the whitespace between them is replaced by
// two line breaks and indent; block comments between them stay on the left
// line like a trailing comment.
func InsertBlankLine(g Gap, indent string) (diag.TextEdit, bool) {
	if g.HasBlankLine() {
		return diag.TextEdit{}, false
	}
	for _, it := range g.Items {
		if it.Kind == token.TriviaNewline {
			at := it.Span.End
			return diag.TextEdit{Span: source.Span{File: g.File, Start: at, End: at}, NewText: "\n"}, true
		}
	}
	start, rest := g.Start, g.Items
	for i, it := range g.Items {
		if it.Kind.IsComment() {
			start, rest = it.Span.End, g.Items[i+1:]
		}
	}
	var old strings.Builder
	for _, it := range rest {
		old.WriteString(it.Text)
	}
	return diag.TextEdit{
		Span:    source.Span{File: g.File, Start: start, End: g.End},
		NewText: "\n\n" + indent,
		OldText: old.String(),
	}, true
}

// RemoveBlankLines returns one edit deleting every whitespace-only line of g.
// Comment lines between the blank lines are kept byte-exact.
func RemoveBlankLines(g Gap) (diag.TextEdit, bool) {
	type line struct {
		first, last int // индексы items, last — Newline
		blank       bool
	}
	var lines []line
	lineStart, seenNewline, blank := 0, false, true
	for i, it := range g.Items {
		switch {
		case it.Kind == token.TriviaNewline:
			if seenNewline {
				lines = append(lines, line{first: lineStart, last: i, blank: blank})
			}
			seenNewline, lineStart, blank = true, i+1, true
		case it.Kind != token.TriviaSpace:
			blank = false
		}
	}

	first, last := -1, -1
	for _, ln := range lines {
		if !ln.blank {
			continue
		}
		if first < 0 {
			first = ln.first
		}
		last = ln.last
	}
	if first < 0 {
		return diag.TextEdit{}, false
	}

	drop := make(map[int]bool)
	for _, ln := range lines {
		if ln.blank {
			for i := ln.first; i <= ln.last; i++ {
				drop[i] = true
			}
		}
	}
	var oldText, newText strings.Builder
	for i := first; i <= last; i++ {
		oldText.WriteString(g.Items[i].Text)
		if !drop[i] {
			newText.WriteString(g.Items[i].Text)
		}
	}
	sp := source.Span{File: g.File, Start: g.Items[first].Span.Start, End: g.Items[last].Span.End}
	return diag.TextEdit{Span: sp, NewText: newText.String(), OldText: oldText.String()}, true
}

// Reindent rewrites the whitespace between the last line break of g and the
// right token so the token starts at the 1-based column col.
func Reindent(g Gap, col int, st Style) (diag.TextEdit, bool) {
	if !g.StartsLine() || col < 1 {
		return diag.TextEdit{}, false
	}
	last := g.lastNewline()
	start := g.Items[last].Span.End
	var old strings.Builder
	for _, it := range g.Items[last+1:] {
		old.WriteString(it.Text)
	}
	want := st.Indent(col)
	if old.String() == want {
		return diag.TextEdit{}, false
	}
	return diag.TextEdit{
		Span:    source.Span{File: g.File, Start: start, End: g.End},
		NewText: want,
		OldText: old.String(),
	}, true
}

// ReindentLines is Reindent that also moves the comment lines standing
// between the left line and the right token to col. Blank lines are kept.
func ReindentLines(g Gap, col int, st Style) (diag.TextEdit, bool) {
	if !g.StartsLine() || col < 1 {
		return diag.TextEdit{}, false
	}
	firstNL := -1
	for i, it := range g.Items {
		if it.Kind == token.TriviaNewline {
			firstNL = i
			break
		}
	}
	want := st.Indent(col)
	var old, out strings.Builder
	atLineStart := true
	for i := firstNL + 1; i < len(g.Items); i++ {
		it := g.Items[i]
		old.WriteString(it.Text)
		switch {
		case it.Kind == token.TriviaNewline:
			out.WriteString(it.Text)
			atLineStart = true
		case atLineStart && it.Kind == token.TriviaSpace:
			// отступ строки: заменим, если за ним что-то есть
			if i+1 < len(g.Items) && g.Items[i+1].Kind == token.TriviaNewline {
				out.WriteString(it.Text)
				continue
			}
			out.WriteString(want)
			atLineStart = false
		case atLineStart:
			out.WriteString(want)
			out.WriteString(it.Text)
			atLineStart = false
		default:
			out.WriteString(it.Text)
		}
	}
	if atLineStart {
		// токен сразу после перевода строки, без отступа
		out.WriteString(want)
	}
	if old.String() == out.String() {
		return diag.TextEdit{}, false
	}
	start := g.Items[firstNL].Span.End
	return diag.TextEdit{
		Span:    source.Span{File: g.File, Start: start, End: g.End},
		NewText: out.String(),
		OldText: old.String(),
	}, true
}

// Join replaces a comment-free gap with sep, pulling the right token onto the
// left token's line.
func Join(g Gap, sep string) (diag.TextEdit, bool) {
	if g.HasComment() {
		return diag.TextEdit{}, false
	}
	old := g.Text()
	if old == sep {
		return diag.TextEdit{}, false
	}
	return diag.TextEdit{Span: g.Span(), NewText: sep, OldText: old}, true
}

// Break moves the right token of a single-line, comment-free gap to a new
// line starting at col.
func Break(g Gap, col int, st Style) (diag.TextEdit, bool) {
	if g.HasComment() || g.HasNewline() || col < 1 {
		return diag.TextEdit{}, false
	}
	return diag.TextEdit{Span: g.Span(), NewText: "\n" + st.Indent(col), OldText: g.Text()}, true
}

// Relocate moves the tokens of mid from the end of left's line to the start
// of right's line: "left mid\n  right" becomes "left\n  mid" + sep + "right".
// mid is one token or a run of touching tokens such as the two '>' of ">>".
// Comments after mid stay on the left line, comment lines above right stay
// above it. Nothing is produced when a comment sits between left and mid.
func Relocate(left *token.Token, mid []token.Token, right *token.Token, sep string) (diag.TextEdit, bool) {
	if len(mid) == 0 {
		return diag.TextEdit{}, false
	}
	first, last := &mid[0], &mid[len(mid)-1]
	before := Between(left, first)
	after := Between(last, right)
	if before.HasComment() || before.HasNewline() || !after.HasNewline() {
		return diag.TextEdit{}, false
	}
	var text strings.Builder
	for i := range mid {
		if i > 0 && (len(mid[i-1].Trailing) > 0 || len(mid[i].Leading) > 0) {
			return diag.TextEdit{}, false
		}
		text.WriteString(mid[i].Text)
	}

	var out strings.Builder
	trailing := last.Trailing
	if tail := (Gap{Items: trailing}); !tail.HasComment() {
		// висячие пробелы перед переводом строки не переносим
		trailing = dropSpaces(trailing)
	}
	for _, it := range trailing {
		out.WriteString(it.Text)
	}
	for _, it := range right.Leading {
		out.WriteString(it.Text)
	}
	out.WriteString(text.String())
	out.WriteString(sep)

	sp := source.Span{File: first.Span.File, Start: left.Span.End, End: right.Span.Start}
	return diag.TextEdit{
		Span:    sp,
		NewText: out.String(),
		OldText: before.Text() + text.String() + after.Text(),
	}, true
}

// Indent returns the spaces that put the next character at column col.
func Indent(col int) string {
	if col <= 1 {
		return ""
	}
	return strings.Repeat(" ", col-1)
}

// Style is how a file indents its lines. The zero Style indents with spaces.
type Style struct {
	Tabs    bool
	TabSize int
}

// StyleOf takes the style of a reference line from its leading whitespace:
// a line that starts with a tab is tab-indented.
func StyleOf(ref string, tabSize int) Style {
	return Style{Tabs: strings.HasPrefix(ref, "\t"), TabSize: tabSize}
}

// Indent returns the whitespace that puts the next character at column col.
// Tab-indented styles use whole tabs while they fit, then spaces.
func (s Style) Indent(col int) string {
	if !s.Tabs || col <= 1 {
		return Indent(col)
	}
	size := s.TabSize
	if size <= 0 {
		size = 4
	}
	tabs := (col - 1) / size
	return strings.Repeat("\t", tabs) + strings.Repeat(" ", col-1-tabs*size)
}

func dropSpaces(items []token.Trivia) []token.Trivia {
	out := make([]token.Trivia, 0, len(items))
	for _, it := range items {
		if it.Kind != token.TriviaSpace {
			out = append(out, it)
		}
	}
	return out
}
