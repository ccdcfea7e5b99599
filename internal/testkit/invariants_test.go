package testkit

import (
	"strings"
	"testing"

	"cslayout/internal/lexer"
	"cslayout/internal/parser"
	"cslayout/internal/source"
	"cslayout/internal/token"
)

const sample = "using System;\n\nclass C\n{\n    // note\n    void M(int a,\n        int b)\n    {\n        Run(a); /* tail */\n    }\n}\n"

func TestCheckLossless(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.cs", []byte(sample)))
	toks := lexer.New(file, lexer.Options{}).All()
	if err := CheckLossless(file, toks); err != nil {
		t.Fatal(err)
	}

	broken := append([]token.Token(nil), toks...)
	broken[1].Text = "Sys"
	if err := CheckLossless(file, broken); err == nil {
		t.Fatal("expected a text mismatch")
	}
	if err := CheckLossless(file, toks[:len(toks)-1]); err == nil || !strings.Contains(err.Error(), "EOF") {
		t.Fatalf("expected missing EOF error, got %v", err)
	}
}

func TestCheckTreeInvariants(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.cs", []byte(sample)))
	tree := parser.ParseFile(file, parser.Options{})
	if err := CheckTreeInvariants(tree); err != nil {
		t.Fatal(err)
	}

	empty := fs.Get(fs.AddVirtual("empty.cs", nil))
	if err := CheckTreeInvariants(parser.ParseFile(empty, parser.Options{})); err != nil {
		t.Fatal(err)
	}
}

func TestCheckSameTokens(t *testing.T) {
	fs := source.NewFileSet()
	a := lexer.New(fs.Get(fs.AddVirtual("a.cs", []byte("Run();\nfor (;;) { }\n"))), lexer.Options{}).All()
	b := lexer.New(fs.Get(fs.AddVirtual("b.cs", []byte("Run();\n\nfor (;;) { }\n"))), lexer.Options{}).All()
	c := lexer.New(fs.Get(fs.AddVirtual("c.cs", []byte("Run();\nwhile (x) { }\n"))), lexer.Options{}).All()

	if err := CheckSameTokens(a, b); err != nil {
		t.Fatalf("trivia-only change must pass: %v", err)
	}
	if err := CheckSameTokens(a, c); err == nil {
		t.Fatal("expected a token change")
	}
	if err := CheckSameTokens(a, a[:3]); err == nil {
		t.Fatal("expected a count mismatch")
	}
}
