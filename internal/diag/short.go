package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cslayout/internal/source"
)

type shortViolation struct {
	Severity string
	ID       string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders violations into a stable, single-line-per-entry
// representation used by `--format short` and golden tests. Entries are
// sorted by path, line, column, then rule ID.
func FormatShort(vs []Violation, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(vs) == 0 {
		return ""
	}

	rendered := make([]shortViolation, 0, len(vs))
	for i := range vs {
		rendered = appendShort(rendered, &vs[i], fs, includeNotes)
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		if di.ID != dj.ID {
			return di.ID < dj.ID
		}
		return di.Message < dj.Message
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.ID, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortViolation, v *Violation, fs *source.FileSet, includeNotes bool) []shortViolation {
	if loc, ok := resolveSpan(fs, v.Primary); ok {
		out = append(out, shortViolation{
			Severity: v.Severity.Label(),
			ID:       v.RuleID,
			Path:     loc.Path,
			Line:     loc.Line,
			Column:   loc.Column,
			Message:  sanitizeMessage(v.Message),
		})
	}
	if includeNotes {
		for _, note := range v.Notes {
			nloc, ok := resolveSpan(fs, note.Span)
			if !ok {
				continue
			}
			out = append(out, shortViolation{
				Severity: "note",
				ID:       v.RuleID,
				Path:     nloc.Path,
				Line:     nloc.Line,
				Column:   nloc.Column,
				Message:  sanitizeMessage(note.Msg),
			})
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (loc resolvedSpan, ok bool) {
	defer func() {
		if recover() != nil {
			loc = resolvedSpan{}
			ok = false
		}
	}()

	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}, true
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
