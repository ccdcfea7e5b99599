package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cslayout/internal/diag"
	"cslayout/internal/source"
)

type palette struct {
	err, warn, info, loc, gutter, caret, note, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		loc:    color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.loc, p.gutter, p.caret, p.note, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	tab := opts.TabSize
	if tab <= 0 {
		tab = 4
	}
	items := bag.Items()
	for i := range items {
		v := &items[i]
		f := fs.Get(v.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", pal.severity(v.Severity).Sprint(v.Severity.String()), v.RuleID, v.Message)
			continue
		}
		start, _ := fs.Resolve(v.Primary)
		path := formatPath(f, fs, opts.PathMode)
		fmt.Fprintf(w, "%s %s %s: %s\n",
			pal.loc.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
			pal.severity(v.Severity).Sprint(v.Severity.String()),
			v.RuleID,
			v.Message)
		writeSnippet(w, f, v.Primary, int(opts.Context), tab, pal)

		if opts.ShowNotes {
			for _, n := range v.Notes {
				nf := fs.Get(n.Span.File)
				if nf == nil {
					continue
				}
				nstart, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), nstart.Line, nstart.Col, n.Msg)
			}
		}
		if opts.ShowFixes && v.Fix != nil {
			fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprint("fix:"), v.Fix.Title)
			if opts.ShowPreview {
				if pv, err := buildFixEditPreview(fs, v.Fix.Edit); err == nil {
					for _, l := range pv.before {
						fmt.Fprintf(w, "    %s %s\n", pal.err.Sprint("-"), expandTabs(l, tab))
					}
					for _, l := range pv.after {
						fmt.Fprintf(w, "    %s %s\n", pal.fix.Sprint("+"), expandTabs(l, tab))
					}
				}
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, sp source.Span, context, tab int, pal palette) {
	start := f.LineCol(sp.Start)
	end := f.LineCol(sp.End)
	first := int(start.Line) - context
	if first < 1 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= int(start.Line); ln++ {
		line := f.Line(uint32(ln))
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth+1, ln), expandTabs(line, tab))
	}

	line := f.Line(start.Line)
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	lineEnd := len(line)
	if end.Line == start.Line {
		lineEnd = int(end.Col) - 1
		if lineEnd > len(line) {
			lineEnd = len(line)
		}
	}
	if lineEnd < col {
		lineEnd = col
	}
	prefix := expandTabs(line[:col], tab)
	marked := expandTabsFrom(line[col:lineEnd], tab, runewidth.StringWidth(prefix))
	pad := runewidth.StringWidth(prefix)
	width := runewidth.StringWidth(marked)
	underline := "^"
	if width > 1 {
		underline += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth+1, ""), strings.Repeat(" ", pad), pal.caret.Sprint(underline))
}

func expandTabs(s string, tab int) string {
	return expandTabsFrom(s, tab, 0)
}

// expandTabsFrom заменяет табы пробелами до следующей позиции табуляции,
// считая, что строка начинается с визуальной колонки col (0-based).
func expandTabsFrom(s string, tab, col int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := tab - col%tab
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}
