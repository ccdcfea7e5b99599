package parser

import (
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// parseType разбирает тип: имя (в т.ч. qualified/generic/alias::), встроенный
// тип, кортеж и суффиксы ?, *, [].
func (p *Parser) parseType() syntax.NodeID {
	t := p.parseNonArrayType()
	if !t.IsValid() {
		return t
	}
	for p.at(token.LBracket) && p.atRankSpecifier() {
		var e elems
		e.node(t)
		e.node(p.parseRankSpecifier())
		t = p.make(syntax.ArrayType, e)
		if p.at(token.Question) && p.questionIsNullable() {
			var n elems
			n.node(t)
			n.tok(p.advance())
			t = p.make(syntax.NullableType, n)
		}
	}
	return t
}

// parseNonArrayType — тип без ранговых спецификаторов (нужен для new T[n]).
func (p *Parser) parseNonArrayType() syntax.NodeID {
	var t syntax.NodeID
	switch {
	case p.at(token.LParen):
		t = p.parseTupleType()
	case p.peek().Kind.IsPredefinedType():
		var e elems
		e.tok(p.advance())
		t = p.make(syntax.PredefinedType, e)
	case p.at(token.Ident):
		t = p.parseName(true)
	default:
		p.err(diag.SynExpectType, "expected type")
		return syntax.NoNodeID
	}
	if !t.IsValid() {
		return t
	}
	for {
		switch {
		case p.at(token.Question) && p.questionIsNullable():
			var e elems
			e.node(t)
			e.tok(p.advance())
			t = p.make(syntax.NullableType, e)
		case p.at(token.Star):
			var e elems
			e.node(t)
			e.tok(p.advance())
			t = p.make(syntax.PointerType, e)
		default:
			return t
		}
	}
}

// questionIsNullable: '?' после типа — nullable, если дальше не начинается
// выражение ветки тернарного оператора.
func (p *Parser) questionIsNullable() bool {
	switch p.peekN(1).Kind {
	case token.Ident, token.Gt, token.Comma, token.RParen, token.RBracket, token.LBracket,
		token.Semicolon, token.Assign, token.LBrace, token.FatArrow, token.Question, token.EOF:
		return true
	case token.KwThis, token.KwOperator:
		return true
	}
	return false
}

func (p *Parser) atRankSpecifier() bool {
	k := p.peekN(1).Kind
	return k == token.RBracket || k == token.Comma
}

// [] или [,,]
func (p *Parser) parseRankSpecifier() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // [
	for p.eat(token.Comma, &e) {
	}
	p.expect(token.RBracket, &e, diag.SynUnclosedDelimiter, "expected ']'")
	return p.make(syntax.RankSpecifier, e)
}

// (int a, string b)
func (p *Parser) parseTupleType() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // (
	for {
		var el elems
		t := p.parseType()
		if !t.IsValid() {
			return syntax.NoNodeID
		}
		el.node(t)
		p.eat(token.Ident, &el)
		e.node(p.make(syntax.Parameter, el))
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	if !p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')' in tuple type") {
		return syntax.NoNodeID
	}
	return p.make(syntax.TupleType, e)
}

// parseName разбирает A, A<T>, A.B<C>.D, global::A. В контексте типа
// (typeCtx) '<' всегда открывает аргументы; в выражении — только если
// разбор аргументов удаётся и за '>' идёт подходящий токен.
func (p *Parser) parseName(typeCtx bool) syntax.NodeID {
	left := p.parseSimpleName(typeCtx)
	if !left.IsValid() {
		return left
	}
	if p.at(token.ColonColon) {
		var e elems
		e.node(left)
		e.tok(p.advance())
		right := p.parseSimpleName(typeCtx)
		if !right.IsValid() {
			return syntax.NoNodeID
		}
		e.node(right)
		left = p.make(syntax.AliasQualifiedName, e)
	}
	if !typeCtx {
		return left
	}
	for p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
		var e elems
		e.node(left)
		e.tok(p.advance())
		e.node(p.parseSimpleName(typeCtx))
		left = p.make(syntax.QualifiedName, e)
	}
	return left
}

func (p *Parser) parseSimpleName(typeCtx bool) syntax.NodeID {
	var e elems
	if !p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected identifier") {
		return syntax.NoNodeID
	}
	if p.at(token.Lt) {
		var args syntax.NodeID
		if typeCtx {
			args = p.parseTypeArgumentList()
		} else {
			args = p.speculate(func() syntax.NodeID {
				list := p.parseTypeArgumentList()
				if list.IsValid() && !p.typeArgsFollow() {
					return syntax.NoNodeID
				}
				return list
			})
		}
		if args.IsValid() {
			e.node(args)
			return p.make(syntax.GenericName, e)
		}
	}
	return p.make(syntax.Name, e)
}

// typeArgsFollow — токены, после которых "a<b>" считается generic-именем.
func (p *Parser) typeArgsFollow() bool {
	switch p.peek().Kind {
	case token.LParen, token.RParen, token.RBracket, token.RBrace, token.Colon, token.Semicolon,
		token.Comma, token.Dot, token.Question, token.EqEq, token.BangEq, token.Pipe, token.Caret,
		token.AndAnd, token.OrOr, token.Amp, token.LBracket, token.QuestionDot, token.EOF,
		token.LBrace, token.FatArrow, token.Gt:
		return true
	case token.Ident:
		// List<int> x — объявление или шаблон
		return true
	}
	return false
}

// <T, U>
func (p *Parser) parseTypeArgumentList() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // <
	// typeof(Dictionary<,>)
	for p.at(token.Comma) {
		e.tok(p.advance())
	}
	if p.eat(token.Gt, &e) {
		return p.make(syntax.TypeArgumentList, e)
	}
	for {
		t := p.parseType()
		if !t.IsValid() {
			return syntax.NoNodeID
		}
		e.node(t)
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	if !p.expect(token.Gt, &e, diag.SynUnclosedDelimiter, "expected '>'") {
		return syntax.NoNodeID
	}
	return p.make(syntax.TypeArgumentList, e)
}

// <T, in U, [A] out V>
func (p *Parser) parseTypeParameterList() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // <
	for {
		var el elems
		for p.at(token.LBracket) {
			el.node(p.parseAttributeList())
		}
		if p.atOr(token.KwIn, token.KwOut) {
			el.tok(p.advance())
		}
		if !p.expect(token.Ident, &el, diag.SynExpectIdentifier, "expected type parameter name") {
			return p.badUntil(e)
		}
		e.node(p.make(syntax.Parameter, el))
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(token.Gt, &e, diag.SynUnclosedDelimiter, "expected '>'")
	return p.make(syntax.TypeParameterList, e)
}

// isTypeThenIdent: впереди "Тип Идентификатор" (без потребления).
func (p *Parser) isTypeThenIdent(follow ...token.Kind) bool {
	return p.lookahead(func() bool {
		if !p.parseType().IsValid() || p.failed {
			return false
		}
		if !p.at(token.Ident) {
			return false
		}
		if len(follow) == 0 {
			return true
		}
		next := p.peekN(1).Kind
		for _, f := range follow {
			if next == f {
				return true
			}
		}
		return false
	})
}
