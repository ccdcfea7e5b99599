package diag

import (
	"cslayout/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit replaces Span with NewText. OldText, when non-empty, must match the
// current content of Span or the edit is rejected as stale.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// IsInsert reports whether the edit only inserts text.
func (e TextEdit) IsInsert() bool { return e.Span.Empty() }

// Fix is the single edit a rule proposes for a violation. Priority decides
// which of two conflicting edits survives a fix pass.
type Fix struct {
	Title    string
	Edit     TextEdit
	Priority int
}

// Violation is one finding: a breached layout rule, or a lexer/parser problem
// reported under its Code ID.
type Violation struct {
	RuleID   string
	Severity Severity
	Message  string
	Primary  source.Span
	Notes    []Note
	Fix      *Fix // nil when no provably correct edit exists
}

// HasFix reports whether the violation carries an edit.
func (v *Violation) HasFix() bool { return v != nil && v.Fix != nil }

func New(sev Severity, code Code, primary source.Span, msg string) Violation {
	return Violation{
		RuleID:   code.ID(),
		Severity: sev,
		Primary:  primary,
		Message:  msg,
	}
}

func (v Violation) WithNote(sp source.Span, msg string) Violation {
	v.Notes = append(v.Notes, Note{Span: sp, Msg: msg})
	return v
}

// Less orders violations by file, start, end, then rule ID.
func Less(a, b *Violation) bool {
	if a.Primary.File != b.Primary.File {
		return a.Primary.File < b.Primary.File
	}
	if a.Primary.Start != b.Primary.Start {
		return a.Primary.Start < b.Primary.Start
	}
	if a.Primary.End != b.Primary.End {
		return a.Primary.End < b.Primary.End
	}
	return a.RuleID < b.RuleID
}
