package parser

import (
	"cslayout/internal/diag"
	"cslayout/internal/lexer"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough(current uint) bool {
	if o.MaxErrors == 0 {
		return false
	}
	return current >= o.MaxErrors
}

// Parser — состояние парсера на один файл. Токены уже лексированы целиком,
// поэтому откат при спекулятивном разборе — это просто сброс pos.
type Parser struct {
	file   *source.File
	toks   []token.Token
	pos    int
	b      *syntax.Builder
	opts   Options
	errors uint

	quiet  int  // >0 во время спекулятивного разбора
	failed bool // спекулятивный разбор встретил ошибку
}

// ParseFile lexes and parses one file. Lexer problems go to the same Reporter.
func ParseFile(file *source.File, opts Options) *syntax.Tree {
	lx := lexer.New(file, lexer.Options{Reporter: lexer.DiagReporter{R: opts.Reporter}})
	return Parse(file, lx.All(), opts)
}

// Parse builds the tree for an already lexed file. toks must end with EOF.
func Parse(file *source.File, toks []token.Token, opts Options) *syntax.Tree {
	p := &Parser{
		file: file,
		toks: toks,
		b:    syntax.NewBuilder(file, toks),
		opts: opts,
	}
	root := p.parseCompilationUnit()
	return p.b.Finish(root)
}

// Errors returns the number of errors reported so far.
func (p *Parser) Errors() uint { return p.errors }
