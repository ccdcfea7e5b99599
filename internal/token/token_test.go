package token_test

import (
	"testing"

	"cslayout/internal/source"
	"cslayout/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"try":     token.KwTry,
		"foreach": token.KwForeach,
		"switch":  token.KwSwitch,
		"using":   token.KwUsing,
		"throw":   token.KwThrow,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v; want %v", lexeme, got, ok, want)
		}
		if got.String() != lexeme {
			t.Fatalf("%v.String() = %q, want %q", got, got.String(), lexeme)
		}
	}

	// contextual keywords stay identifiers, keywords are case-sensitive
	for _, s := range []string{"var", "when", "nameof", "Try", "FOREACH"} {
		if _, ok := token.LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !token.PlusAssign.IsAssignment() || token.EqEq.IsAssignment() {
		t.Fatalf("IsAssignment misclassifies")
	}
	if !token.KwInt.IsPredefinedType() || token.KwClass.IsPredefinedType() {
		t.Fatalf("IsPredefinedType misclassifies")
	}
	if !token.KwStatic.IsModifier() || token.KwIf.IsModifier() {
		t.Fatalf("IsModifier misclassifies")
	}
	if token.Ident.IsKeyword() || !token.KwWhile.IsKeyword() {
		t.Fatalf("IsKeyword misclassifies")
	}
}

func TestFullSpan(t *testing.T) {
	tok := token.Token{
		Kind: token.Ident,
		Span: source.Span{Start: 4, End: 7},
		Text: "foo",
		Leading: []token.Trivia{
			{Kind: token.TriviaSpace, Span: source.Span{Start: 0, End: 4}, Text: "    "},
		},
		Trailing: []token.Trivia{
			{Kind: token.TriviaNewline, Span: source.Span{Start: 7, End: 8}, Text: "\n"},
		},
	}
	if sp := tok.FullSpan(); sp.Start != 0 || sp.End != 8 {
		t.Fatalf("FullSpan = %v", sp)
	}
	if !token.TriviaDirective.IsComment() || token.TriviaNewline.IsComment() {
		t.Fatalf("IsComment misclassifies")
	}
}
