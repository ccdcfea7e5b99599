package diagfmt

import (
	"io"

	json "github.com/goccy/go-json"

	"cslayout/internal/diag"
	"cslayout/internal/source"
)

// Location is a span in machine output. Line and column fields are present
// only with JSONOpts.IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Edit is the fix attached to a violation, with an optional line preview.
type Edit struct {
	Title       string   `json:"title"`
	Priority    int      `json:"priority"`
	Location    Location `json:"location"`
	NewText     string   `json:"new_text"`
	OldText     string   `json:"old_text,omitempty"`
	BeforeLines []string `json:"before_lines,omitempty"`
	AfterLines  []string `json:"after_lines,omitempty"`
}

// Entry is one reported violation.
type Entry struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
	Fix      *Edit    `json:"fix,omitempty"`
}

// Report is the document written by JSON.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(span source.Span) Location {
	loc := Location{
		File:      formatPath(b.fs.Get(span.File), b.fs, b.opts.PathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) entry(d *diag.Violation) Entry {
	e := Entry{
		Severity: d.Severity.Label(),
		Code:     d.RuleID,
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	// тайминги без заметок бессмысленны
	if b.opts.IncludeNotes || d.RuleID == diag.ObsTimings.ID() {
		for _, n := range d.Notes {
			e.Notes = append(e.Notes, Note{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes && d.Fix != nil {
		e.Fix = b.edit(d.Fix)
	}
	return e
}

func (b jsonBuilder) edit(fix *diag.Fix) *Edit {
	out := &Edit{
		Title:    fix.Title,
		Priority: fix.Priority,
		Location: b.location(fix.Edit.Span),
		NewText:  fix.Edit.NewText,
		OldText:  fix.Edit.OldText,
	}
	if b.opts.IncludePreviews {
		if p, err := buildFixEditPreview(b.fs, fix.Edit); err == nil {
			out.BeforeLines, out.AfterLines = p.before, p.after
		}
	}
	return out
}

// BuildDiagnosticsOutput converts at most opts.Max diagnostics of bag.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	b := jsonBuilder{fs: fs, opts: opts}
	report := Report{Diagnostics: make([]Entry, 0, len(items))}
	for i := range items {
		report.Diagnostics = append(report.Diagnostics, b.entry(&items[i]))
	}
	report.Count = len(report.Diagnostics)
	return report
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
