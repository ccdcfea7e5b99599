// Package diag defines the finding model shared by the lexer, parser and the
// layout rules.
//
// # Data model
//
// Violation is the central record. It contains:
//
//   - RuleID – stable string identifier. Layout rules use their own IDs
//     (LY1001...), lexer/parser problems use Code.ID() (LEX1001, SYN2001...).
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the anchor token of the finding.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fix – at most one Fix carrying exactly one TextEdit.
//
// TextEdit holds spans in source coordinates; OldText acts as a guard that the
// fix engine uses to validate the context before applying the edit.
//
// # Emitting diagnostics
//
// The lexer and parser emit through a Reporter, usually a BagReporter wrapped
// in a DedupReporter. Layout rules return Violations directly: they are values
// produced once by the scanner and consumed once by the fix planner.
//
// Package diag does no formatting beyond FormatShort; rendering lives in
// internal/diagfmt and edit application in internal/fix.
package diag
