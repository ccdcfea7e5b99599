package diag

import (
	"fmt"
)

// Code identifies lexer, parser and driver problems. Layout rules carry their
// own string IDs (see internal/rules) and never use Code.
type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005
	LexNewlineInString          Code = 1006

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectSemicolon   Code = 2003
	SynExpectIdentifier  Code = 2004
	SynExpectExpression  Code = 2005
	SynExpectType        Code = 2006
	SynExpectStatement   Code = 2007
	SynUnsupported       Code = 2008

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Наблюдаемость
	ObsInfo      Code = 6000
	ObsTimings   Code = 6001
	ObsRulePanic Code = 6002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	LexUnterminatedChar:         "Unterminated character literal",
	LexNewlineInString:          "Newline in string literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectType:               "Expected type",
	SynExpectStatement:          "Expected statement",
	SynUnsupported:              "Unsupported syntax, region skipped",
	IOLoadFileError:             "I/O load file error",
	IOWriteFileError:            "I/O write file error",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
	ObsRulePanic:                "Rule panicked and was skipped",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
