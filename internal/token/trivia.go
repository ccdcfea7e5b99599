package token

import "cslayout/internal/source"

// TriviaKind classifies a run of non-semantic text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocComment
	TriviaDirective
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDocComment:
		return "DocComment"
	case TriviaDirective:
		return "Directive"
	default:
		return "Unknown"
	}
}

// IsComment reports whether the trivia carries author text that edits must keep.
// Preprocessor directives count as comments for layout purposes.
func (k TriviaKind) IsComment() bool {
	switch k {
	case TriviaLineComment, TriviaBlockComment, TriviaDocComment, TriviaDirective:
		return true
	default:
		return false
	}
}

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
