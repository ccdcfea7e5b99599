package lexer

import (
	"cslayout/internal/diag"
	"cslayout/internal/source"
)

// DiagReporter adapts diag.Reporter to the lexer's string-keyed Reporter.
type DiagReporter struct {
	R diag.Reporter
}

var kindCodes = map[string]diag.Code{
	KindUnknownChar:        diag.LexUnknownChar,
	KindUnterminatedString: diag.LexUnterminatedString,
	KindNewlineInString:    diag.LexNewlineInString,
	KindUnterminatedChar:   diag.LexUnterminatedChar,
	KindUnterminatedBlock:  diag.LexUnterminatedBlockComment,
	KindBadNumber:          diag.LexBadNumber,
}

func (a DiagReporter) Report(kind string, span source.Span, msg string) {
	if a.R == nil {
		return
	}
	code, ok := kindCodes[kind]
	if !ok {
		code = diag.LexInfo
	}
	diag.ReportError(a.R, code, span, msg).Emit()
}
