package rules

import (
	"cslayout/internal/construct"
	"cslayout/internal/diag"
	"cslayout/internal/layout"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
	"cslayout/internal/trivia"
)

// Family separates blank-line rules from alignment rules.
type Family uint8

const (
	BlankLine Family = iota
	Alignment
)

func (f Family) String() string {
	if f == Alignment {
		return "alignment"
	}
	return "blank-line"
}

// Relation is what a blank-line rule requires around its construct.
type Relation uint8

const (
	NotRequired Relation = iota
	PrecededBy
	FollowedBy
	SurroundedBy
	Forbidden
)

func (r Relation) String() string {
	switch r {
	case PrecededBy:
		return "preceded by blank line"
	case FollowedBy:
		return "followed by blank line"
	case SurroundedBy:
		return "surrounded by blank lines"
	case Forbidden:
		return "no blank lines"
	}
	return "not required"
}

func (r Relation) before() bool { return r == PrecededBy || r == SurroundedBy }

func (r Relation) after() bool { return r == FollowedBy || r == SurroundedBy }

// Context is shared by all rules during one scan of one tree.
type Context struct {
	Tree    *syntax.Tree
	Options layout.Options
	// Enabled reports whether a rule takes part in the scan; nil means all.
	Enabled func(id string) bool
}

func (c *Context) enabled(id string) bool {
	return c.Enabled == nil || c.Enabled(id)
}

// Node is a classified node offered to the rules.
type Node struct {
	ID   syntax.NodeID
	Kind construct.Kind
}

// Rule is one layout convention. Evaluate looks only at the node and its
// immediate siblings; it never mutates the tree.
type Rule interface {
	ID() string
	Name() string
	Kind() Family
	Priority() int
	Summary() string
	Applies(ctx *Context, n Node) bool
	Evaluate(ctx *Context, n Node) []diag.Violation
}

// meta carries the identity every rule shares.
type meta struct {
	id       string
	name     string
	family   Family
	priority int
	summary  string
}

func (m meta) ID() string      { return m.id }
func (m meta) Name() string    { return m.name }
func (m meta) Kind() Family    { return m.family }
func (m meta) Priority() int   { return m.priority }
func (m meta) Summary() string { return m.summary }

// violation is reported at token at with warning severity; the scanner
// applies configured severities.
func (m meta) violation(ctx *Context, at syntax.TokenID, msg string) diag.Violation {
	return diag.Violation{
		RuleID:   m.id,
		Severity: diag.SevWarning,
		Message:  msg,
		Primary:  ctx.Tree.Token(at).Span,
	}
}

// withEdit attaches the edit when the builder proved it correct.
func (m meta) withEdit(v diag.Violation, title string, edit diag.TextEdit, ok bool) diag.Violation {
	if !ok {
		return v
	}
	v.Fix = &diag.Fix{Title: title, Edit: edit, Priority: m.priority}
	return v
}

func (c *Context) tok(id syntax.TokenID) *token.Token { return c.Tree.Token(id) }

// gap returns the trivia between two adjacent tokens.
func (c *Context) gap(left, right syntax.TokenID) trivia.Gap {
	return trivia.Between(c.Tree.Token(left), c.Tree.Token(right))
}

func (c *Context) column(id syntax.TokenID) int {
	return c.Tree.Column(id, c.Options.TabSize)
}

// style returns the indentation style of the line holding id.
func (c *Context) style(id syntax.TokenID) trivia.Style {
	return trivia.StyleOf(c.Tree.File.Indentation(c.Tree.Line(id)), c.Options.TabSize)
}
