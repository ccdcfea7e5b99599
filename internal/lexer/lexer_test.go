package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"cslayout/internal/diag"
	"cslayout/internal/lexer"
	"cslayout/internal/source"
	"cslayout/internal/token"
)

// testReporter собирает все проблемы, полученные от лексера
type testReporter struct {
	kinds []string
}

func (r *testReporter) Report(kind string, _ source.Span, _ string) {
	r.kinds = append(r.kinds, kind)
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter
}

// lexAll собирает все токены без EOF
func lexAll(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	toks := lx.All()
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		t.Fatalf("expected EOF last, got %v", last.Kind)
	}
	return toks[:len(toks)-1], reporter
}

func expectTokens(t *testing.T, input string, expected ...token.Kind) {
	t.Helper()
	toks, reporter := lexAll(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(toks), input, tokensToString(toks), reporter.kinds)
	}
	for i, tok := range toks {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, text string) {
	t.Helper()
	toks, reporter := lexAll(t, input)
	if len(toks) != 1 {
		t.Fatalf("expected one token for %q, got %v (errors %v)", input, tokensToString(toks), reporter.kinds)
	}
	if toks[0].Kind != kind || toks[0].Text != text {
		t.Fatalf("expected %v(%q), got %v(%q)", kind, text, toks[0].Kind, toks[0].Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func reconstruct(toks []token.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		for _, tr := range tok.Leading {
			b.WriteString(tr.Text)
		}
		b.WriteString(tok.Text)
		for _, tr := range tok.Trailing {
			b.WriteString(tr.Text)
		}
	}
	return b.String()
}

func TestIdentifiersAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"foo", token.Ident, "foo"},
		{"_bar", token.Ident, "_bar"},
		{"x123", token.Ident, "x123"},
		{"привет", token.Ident, "привет"},
		{"@class", token.Ident, "@class"},
		{"class", token.KwClass, "class"},
		{"foreach", token.KwForeach, "foreach"},
		{"var", token.Ident, "var"},
		{"nameof", token.Ident, "nameof"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000", token.IntLit},
		{"0xFF", token.IntLit},
		{"0b1010_1010", token.IntLit},
		{"10UL", token.IntLit},
		{"42L", token.IntLit},
		{"1.5", token.RealLit},
		{".5", token.RealLit},
		{"1e-3", token.RealLit},
		{"2.0f", token.RealLit},
		{"3m", token.RealLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
	expectTokens(t, "1..2", token.IntLit, token.DotDot, token.IntLit)
	expectTokens(t, "1.ToString()", token.IntLit, token.Dot, token.Ident, token.LParen, token.RParen)
}

func TestStringsAndChars(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{`"plain"`, token.StringLit},
		{`"esc \" quote"`, token.StringLit},
		{`@"C:\dir\""file"""`, token.StringLit},
		{`$"a {b} c"`, token.StringLit},
		{`$"nested {(x ? "}" : "{")} ok"`, token.StringLit},
		{`$"{{literal}}"`, token.StringLit},
		{`$@"multi {x}` + "\n" + `line"`, token.StringLit},
		{`"""raw "quoted" text"""`, token.StringLit},
		{`$$"""{{x}} {y}"""`, token.StringLit},
		{`'a'`, token.CharLit},
		{`'\n'`, token.CharLit},
		{`'\''`, token.CharLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestStringErrors(t *testing.T) {
	toks, reporter := lexAll(t, "\"abc\nx")
	if toks[0].Kind != token.Invalid || toks[0].Text != `"abc` {
		t.Fatalf("expected invalid string token, got %v", tokensToString(toks))
	}
	if len(reporter.kinds) != 1 || reporter.kinds[0] != lexer.KindNewlineInString {
		t.Fatalf("unexpected reports %v", reporter.kinds)
	}
	if toks[1].Kind != token.Ident {
		t.Fatalf("lexing must continue after the bad string, got %v", tokensToString(toks))
	}

	_, reporter = lexAll(t, "/* open")
	if len(reporter.kinds) != 1 || reporter.kinds[0] != lexer.KindUnterminatedBlock {
		t.Fatalf("unexpected reports %v", reporter.kinds)
	}
}

func TestOperators(t *testing.T) {
	expectTokens(t, "a >>= b",
		token.Ident, token.Gt, token.GtEq, token.Ident)
	expectTokens(t, "List<List<int>> x",
		token.Ident, token.Lt, token.Ident, token.Lt, token.KwInt, token.Gt, token.Gt, token.Ident)
	expectTokens(t, "a ?? b ??= c?.d",
		token.Ident, token.QuestionQuestion, token.Ident, token.QuestionQAssign, token.Ident, token.QuestionDot, token.Ident)
	expectTokens(t, "x ?.5:1",
		token.Ident, token.Question, token.RealLit, token.Colon, token.IntLit)
	expectTokens(t, "(x) => x << 2 && y || !z",
		token.LParen, token.Ident, token.RParen, token.FatArrow, token.Ident, token.Shl, token.IntLit,
		token.AndAnd, token.Ident, token.OrOr, token.Bang, token.Ident)
	expectTokens(t, "global::System", token.Ident, token.ColonColon, token.Ident)
}

func TestTriviaDistribution(t *testing.T) {
	input := "a(); // done\n\n// lead\nb();\n"
	toks, _ := lexAll(t, input)
	if len(toks) != 8 {
		t.Fatalf("unexpected tokens %v", tokensToString(toks))
	}
	semi := toks[3]
	if semi.Kind != token.Semicolon {
		t.Fatalf("expected ';', got %v", semi.Kind)
	}
	wantTrailing := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline}
	if len(semi.Trailing) != len(wantTrailing) {
		t.Fatalf("unexpected trailing trivia %+v", semi.Trailing)
	}
	for i, k := range wantTrailing {
		if semi.Trailing[i].Kind != k {
			t.Fatalf("trailing[%d] = %v, want %v", i, semi.Trailing[i].Kind, k)
		}
	}
	b := toks[4]
	wantLeading := []token.TriviaKind{token.TriviaNewline, token.TriviaLineComment, token.TriviaNewline}
	if len(b.Leading) != len(wantLeading) {
		t.Fatalf("unexpected leading trivia %+v", b.Leading)
	}
	for i, k := range wantLeading {
		if b.Leading[i].Kind != k {
			t.Fatalf("leading[%d] = %v, want %v", i, b.Leading[i].Kind, k)
		}
	}
}

func TestDirectivesAndDocComments(t *testing.T) {
	input := "#region X\n/// <summary/>\nclass C { } # \n#endregion\n"
	toks, reporter := lexAll(t, input)
	if len(reporter.kinds) != 0 {
		t.Fatalf("unexpected reports %v", reporter.kinds)
	}
	if toks[0].Kind != token.KwClass {
		t.Fatalf("expected class first, got %v", tokensToString(toks))
	}
	lead := toks[0].Leading
	if lead[0].Kind != token.TriviaDirective || lead[0].Text != "#region X" {
		t.Fatalf("expected directive, got %+v", lead[0])
	}
	if lead[2].Kind != token.TriviaDocComment {
		t.Fatalf("expected doc comment, got %+v", lead[2])
	}
	// '#' не в начале строки — обычный токен
	if toks[4].Kind != token.Hash {
		t.Fatalf("expected stray hash token, got %v", tokensToString(toks))
	}
}

func TestCRLFNewlines(t *testing.T) {
	toks, _ := lexAll(t, "a;\r\n\r\nb;")
	semi := toks[1]
	if len(semi.Trailing) != 1 || semi.Trailing[0].Text != "\r\n" {
		t.Fatalf("expected CRLF trailing newline, got %+v", semi.Trailing)
	}
	if len(toks[2].Leading) != 1 || toks[2].Leading[0].Kind != token.TriviaNewline {
		t.Fatalf("expected one leading newline, got %+v", toks[2].Leading)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"using System;\n\nnamespace N\n{\n\tclass C\n\t{\n\t\t/* c */ void M() { }\n\t}\n}\n",
		"  // only comment\n\n",
		"var s = $\"{a}\" + @\"x\"; // tail",
		"\"broken\n x",
	}
	for _, in := range inputs {
		lx, _ := makeTestLexer(in)
		if got := reconstruct(lx.All()); got != in {
			t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", in, got)
		}
	}
}

func TestDiagReporterAdapter(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.cs", []byte("`")))
	bag := diag.NewBag(10)
	lx := lexer.New(file, lexer.Options{Reporter: lexer.DiagReporter{R: diag.BagReporter{Bag: bag}}})
	lx.All()
	if bag.Len() != 1 || bag.Items()[0].RuleID != diag.LexUnknownChar.ID() {
		t.Fatalf("unexpected diagnostics %+v", bag.Items())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek got %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next got %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next got %q", n.Text)
	}
}

func TestCursorLookahead(t *testing.T) {
	fs := source.NewFileSet()
	c := lexer.NewCursor(fs.Get(fs.AddVirtual("c.cs", []byte("<<="))))

	if !c.HasPrefix("<<=") || c.HasPrefix("<<=>") {
		t.Fatalf("HasPrefix must respect the end of input")
	}
	if c.At(2) != '=' || c.At(3) != 0 {
		t.Fatalf("At: %q %q", c.At(2), c.At(3))
	}
	c.Skip(10)
	if !c.EOF() || c.Peek() != 0 || c.Bump() != 0 {
		t.Fatalf("cursor must stop at the end, off=%d", c.Off)
	}
}
