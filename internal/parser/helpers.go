package parser

import (
	"slices"

	"cslayout/internal/diag"
	"cslayout/internal/source"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// elems накапливает детей будущего узла в порядке исходника.
type elems []syntax.Element

func (e *elems) tok(id syntax.TokenID) { *e = append(*e, syntax.TokenElem(id)) }

func (e *elems) node(id syntax.NodeID) {
	if id.IsValid() {
		*e = append(*e, syntax.NodeElem(id))
	}
}

func (p *Parser) make(kind syntax.Kind, e elems) syntax.NodeID {
	if len(e) == 0 {
		return p.b.MakeAt(kind, p.cur())
	}
	return p.b.Make(kind, e)
}

func (p *Parser) cur() syntax.TokenID { return syntax.TokenID(p.pos) }

func (p *Parser) peek() *token.Token { return &p.toks[p.pos] }

// peekN смотрит на n токенов вперёд; за концом — EOF.
func (p *Parser) peekN(n int) *token.Token {
	if p.pos+n >= len(p.toks) {
		return &p.toks[len(p.toks)-1]
	}
	return &p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atWord — контекстное ключевое слово (var, when, get, async...).
func (p *Parser) atWord(word string) bool { return p.peek().Is(word) }

func (p *Parser) atEOF() bool { return p.at(token.EOF) }

// advance — съедает текущий токен и возвращает его TokenID. EOF не съедается.
func (p *Parser) advance() syntax.TokenID {
	id := p.cur()
	if !p.atEOF() {
		p.pos++
	}
	return id
}

// eat съедает токен нужного вида, если он есть.
func (p *Parser) eat(k token.Kind, e *elems) bool {
	if p.at(k) {
		e.tok(p.advance())
		return true
	}
	return false
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем false.
func (p *Parser) expect(k token.Kind, e *elems, code diag.Code, msg string) bool {
	if p.eat(k, e) {
		return true
	}
	p.err(code, msg)
	return false
}

// diagnosticSpan — позиция для ошибки: текущий токен, а на EOF — конец предыдущего.
func (p *Parser) diagnosticSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.pos > 0 {
		prev := p.toks[p.pos-1].Span
		return source.Span{File: prev.File, Start: prev.End, End: prev.End}
	}
	return tok.Span
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.quiet > 0 {
		p.failed = true
		return
	}
	if sev == diag.SevError {
		if p.opts.Enough(p.errors) {
			return
		}
		p.errors++
	}
	if p.opts.Reporter == nil {
		return
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil)
}

// speculate пробует fn; при неудаче откатывает позицию и все созданные узлы.
// Ошибки внутри не репортятся.
func (p *Parser) speculate(fn func() syntax.NodeID) syntax.NodeID {
	pos, mark, outerFailed := p.pos, p.b.Mark(), p.failed
	p.quiet++
	p.failed = false
	id := fn()
	ok := id.IsValid() && !p.failed
	p.quiet--
	p.failed = outerFailed
	if !ok {
		p.pos = pos
		p.b.Reset(mark)
		return syntax.NoNodeID
	}
	return id
}

// lookahead проверяет условие без побочных эффектов.
func (p *Parser) lookahead(fn func() bool) bool {
	pos, mark, outerFailed := p.pos, p.b.Mark(), p.failed
	p.quiet++
	p.failed = false
	ok := fn() && !p.failed
	p.quiet--
	p.failed = outerFailed
	p.pos = pos
	p.b.Reset(mark)
	return ok
}

// skipBalanced пропускает токены до одного из stop на нулевой глубине скобок.
// Возвращает пропущенные токены.
func (p *Parser) skipBalanced(e *elems, stop ...token.Kind) {
	depth := 0
	for !p.atEOF() {
		k := p.peek().Kind
		if depth == 0 && slices.Contains(stop, k) {
			return
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				// чужая закрывающая скобка — дальше не идём
				return
			}
			depth--
		}
		e.tok(p.advance())
	}
}

// badUntil строит Bad-узел из токенов до ';' (включительно) или '}' (не включая).
// Всегда съедает хотя бы один токен, если это возможно.
func (p *Parser) badUntil(e elems) syntax.NodeID {
	start := p.pos
	p.skipBalanced(&e, token.Semicolon, token.RBrace)
	p.eat(token.Semicolon, &e)
	if p.pos == start && !p.atEOF() && !p.at(token.RBrace) {
		e.tok(p.advance())
	}
	if len(e) == 0 {
		return syntax.NoNodeID
	}
	return p.b.Make(syntax.Bad, e)
}
