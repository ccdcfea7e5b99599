package parser

import (
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

func (p *Parser) parseCompilationUnit() syntax.NodeID {
	var e elems
	p.parseNamespaceBody(&e, true)
	e.tok(p.advance()) // EOF: несёт хвостовые trivia файла
	return p.make(syntax.CompilationUnit, e)
}

// parseNamespaceBody — extern alias, using, члены пространства имён.
// На верхнем уровне (top) идём до EOF, иначе до '}'.
func (p *Parser) parseNamespaceBody(e *elems, top bool) {
	for !p.atEOF() {
		if p.at(token.RBrace) {
			if !top {
				return
			}
			// лишняя '}' на верхнем уровне
			p.err(diag.SynUnexpectedToken, "unexpected '}'")
			var bad elems
			bad.tok(p.advance())
			e.node(p.make(syntax.Bad, bad))
			continue
		}
		start := p.pos
		var id syntax.NodeID
		switch {
		case p.at(token.KwExtern) && p.peekN(1).Is("alias"):
			id = p.parseExternAlias()
		case p.at(token.KwUsing) || (p.atWord("global") && p.peekN(1).Kind == token.KwUsing):
			id = p.parseUsingDirective()
		default:
			id = p.parseMember()
		}
		if !id.IsValid() || p.pos == start {
			p.err(diag.SynUnexpectedToken, "expected namespace member")
			id = p.badUntil(nil)
		}
		e.node(id)
	}
}

// extern alias X;
func (p *Parser) parseExternAlias() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // extern
	e.tok(p.advance()) // alias
	p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected alias name")
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'")
	return p.make(syntax.ExternAlias, e)
}

// [global] using [static] [Alias =] Name;
func (p *Parser) parseUsingDirective() syntax.NodeID {
	var e elems
	if p.atWord("global") {
		e.tok(p.advance())
	}
	e.tok(p.advance()) // using
	p.eat(token.KwStatic, &e)
	if p.at(token.Ident) && p.peekN(1).Kind == token.Assign {
		var alias elems
		alias.tok(p.advance())
		e.node(p.make(syntax.Name, alias))
		e.tok(p.advance()) // =
	}
	name := p.parseType()
	if !name.IsValid() {
		return p.badUntil(e)
	}
	e.node(name)
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after using directive")
	return p.make(syntax.UsingDirective, e)
}

// namespace A.B { ... } или namespace A.B; (до конца файла)
func (p *Parser) parseNamespace(e elems) syntax.NodeID {
	e.tok(p.advance()) // namespace
	name := p.parseName(true)
	if !name.IsValid() {
		return p.badUntil(e)
	}
	e.node(name)
	if p.eat(token.Semicolon, &e) {
		p.parseNamespaceBody(&e, true)
		return p.make(syntax.FileNamespaceDecl, e)
	}
	if !p.expect(token.LBrace, &e, diag.SynExpectStatement, "expected '{' after namespace name") {
		return p.badUntil(e)
	}
	p.parseNamespaceBody(&e, false)
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close namespace")
	p.eat(token.Semicolon, &e)
	return p.make(syntax.NamespaceDecl, e)
}

// contextualModifiers — контекстные слова, работающие как модификаторы.
var contextualModifiers = map[string]bool{
	"partial":  true,
	"async":    true,
	"required": true,
	"file":     true,
	"scoped":   true,
}

func (p *Parser) atContextualModifier() bool {
	tok := p.peek()
	if tok.Kind != token.Ident || !contextualModifiers[tok.Text] {
		return false
	}
	next := p.peekN(1)
	return next.Kind == token.Ident || next.Kind.IsKeyword() || next.Kind == token.LParen && tok.Text == "async"
}

func (p *Parser) parseModifiers(e *elems) {
	for {
		switch {
		case p.peek().Kind.IsModifier() && !(p.at(token.KwNew) && !p.peekN(1).Kind.IsKeyword() && p.peekN(1).Kind != token.Ident):
			e.tok(p.advance())
		case p.at(token.KwRef) && p.peekN(1).Kind != token.LParen:
			e.tok(p.advance())
		case p.atContextualModifier():
			e.tok(p.advance())
		default:
			return
		}
	}
}

func (p *Parser) atRecord() bool {
	if !p.atWord("record") {
		return false
	}
	next := p.peekN(1).Kind
	return next == token.Ident || next == token.KwClass || next == token.KwStruct
}

// parseMember — объявление члена типа или пространства имён.
func (p *Parser) parseMember() syntax.NodeID {
	var e elems
	for p.at(token.LBracket) {
		e.node(p.parseAttributeList())
	}
	p.parseModifiers(&e)

	switch {
	case p.atOr(token.KwClass, token.KwStruct, token.KwInterface) || p.atRecord():
		return p.parseTypeDecl(e)
	case p.at(token.KwEnum):
		return p.parseEnumDecl(e)
	case p.at(token.KwDelegate):
		return p.parseDelegateDecl(e)
	case p.at(token.KwEvent):
		return p.parseEventDecl(e)
	case p.at(token.KwNamespace):
		return p.parseNamespace(e)
	case p.at(token.Tilde):
		// ~Finalizer()
		e.tok(p.advance())
		p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected finalizer name")
		return p.parseMethodRest(e, syntax.MethodDecl)
	case p.atOr(token.KwImplicit, token.KwExplicit):
		e.tok(p.advance())
		p.expect(token.KwOperator, &e, diag.SynUnexpectedToken, "expected 'operator'")
		t := p.parseType()
		if !t.IsValid() {
			return p.badUntil(e)
		}
		e.node(t)
		return p.parseMethodRest(e, syntax.MethodDecl)
	case p.at(token.Ident) && p.peekN(1).Kind == token.LParen:
		e.tok(p.advance())
		return p.parseMethodRest(e, syntax.ConstructorDecl)
	}

	if len(e) == 0 && !p.at(token.Ident) && !p.peek().Kind.IsPredefinedType() && !p.at(token.LParen) {
		return syntax.NoNodeID
	}
	typ := p.parseType()
	if !typ.IsValid() {
		return p.badUntil(e)
	}

	switch {
	case p.at(token.KwOperator):
		e.node(typ)
		e.tok(p.advance())
		p.parseOperatorToken(&e)
		return p.parseMethodRest(e, syntax.MethodDecl)
	case p.at(token.KwThis):
		e.node(typ)
		return p.parseIndexer(e)
	case p.at(token.Ident) && p.atOrN(1, token.Assign, token.Comma, token.Semicolon, token.LBracket):
		e.node(p.parseVarDeclaration(typ))
		p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after field declaration")
		return p.make(syntax.FieldDecl, e)
	}

	e.node(typ)
	name := p.parseName(true)
	if !name.IsValid() {
		return p.badUntil(e)
	}
	e.node(name)
	switch {
	case p.at(token.Dot) && p.peekN(1).Kind == token.KwThis:
		// IList<T>.this[int i]
		e.tok(p.advance())
		return p.parseIndexer(e)
	case p.atOr(token.LParen, token.Lt):
		return p.parseMethodRest(e, syntax.MethodDecl)
	case p.atOr(token.LBrace, token.FatArrow):
		return p.parsePropertyRest(e, syntax.PropertyDecl)
	}
	p.err(diag.SynUnexpectedToken, "expected member body")
	return p.badUntil(e)
}

func (p *Parser) atOrN(n int, kinds ...token.Kind) bool {
	k := p.peekN(n).Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// operator +, operator ==, operator true, operator >> (два '>')
func (p *Parser) parseOperatorToken(e *elems) {
	if p.at(token.LParen) {
		p.err(diag.SynUnexpectedToken, "expected overloadable operator")
		return
	}
	e.tok(p.advance())
	if p.at(token.Gt) && p.toks[p.pos-1].Kind == token.Gt && p.toks[p.pos-1].Span.End == p.peek().Span.Start {
		e.tok(p.advance())
	}
}

// parseMethodRest: [<T>] (params) [: base(...)] [where ...] body
func (p *Parser) parseMethodRest(e elems, kind syntax.Kind) syntax.NodeID {
	if p.at(token.Lt) {
		e.node(p.parseTypeParameterList())
	}
	params := p.parseParameterList(token.LParen, token.RParen, syntax.ParameterList)
	if !params.IsValid() {
		return p.badUntil(e)
	}
	e.node(params)
	if kind == syntax.ConstructorDecl && p.at(token.Colon) {
		var ci elems
		ci.tok(p.advance())
		if !p.atOr(token.KwBase, token.KwThis) {
			p.err(diag.SynUnexpectedToken, "expected 'base' or 'this'")
			return p.badUntil(e)
		}
		ci.tok(p.advance())
		ci.node(p.parseArgumentList(token.LParen, token.RParen, syntax.ArgumentList))
		e.node(p.make(syntax.ConstructorInitializer, ci))
	}
	p.parseConstraints(&e)
	p.parseBody(&e)
	return p.make(kind, e)
}

// this[int i] { get; set; }
func (p *Parser) parseIndexer(e elems) syntax.NodeID {
	e.tok(p.advance()) // this
	params := p.parseParameterList(token.LBracket, token.RBracket, syntax.BracketedParameterList)
	if !params.IsValid() {
		return p.badUntil(e)
	}
	e.node(params)
	return p.parsePropertyRest(e, syntax.IndexerDecl)
}

// { get; set; } [= init;] или => expr;
func (p *Parser) parsePropertyRest(e elems, kind syntax.Kind) syntax.NodeID {
	if p.at(token.FatArrow) {
		e.node(p.parseArrowClause())
		p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'")
		return p.make(kind, e)
	}
	e.node(p.parseAccessorList())
	if p.at(token.Assign) {
		e.node(p.parseEqualsValue())
		p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after property initializer")
	}
	return p.make(kind, e)
}

func (p *Parser) parseAccessorList() syntax.NodeID {
	var e elems
	if !p.expect(token.LBrace, &e, diag.SynUnexpectedToken, "expected '{'") {
		return p.badUntil(e)
	}
	for !p.atEOF() && !p.at(token.RBrace) {
		start := p.pos
		var a elems
		for p.at(token.LBracket) {
			a.node(p.parseAttributeList())
		}
		p.parseModifiers(&a)
		if !p.expect(token.Ident, &a, diag.SynExpectIdentifier, "expected accessor") {
			e.node(p.badUntil(a))
			if p.pos == start {
				break
			}
			continue
		}
		p.parseBody(&a)
		e.node(p.make(syntax.Accessor, a))
	}
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}'")
	return p.make(syntax.AccessorList, e)
}

// parseBody: { ... } | => expr ; | ;
func (p *Parser) parseBody(e *elems) {
	switch {
	case p.at(token.LBrace):
		e.node(p.parseBlock())
	case p.at(token.FatArrow):
		e.node(p.parseArrowClause())
		p.expect(token.Semicolon, e, diag.SynExpectSemicolon, "expected ';'")
	default:
		p.expect(token.Semicolon, e, diag.SynExpectSemicolon, "expected body or ';'")
	}
}

func (p *Parser) parseArrowClause() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // =>
	x := p.parseExpr()
	if !x.IsValid() {
		return p.badUntil(e)
	}
	e.node(x)
	return p.make(syntax.ArrowClause, e)
}

// where T : class, new()
func (p *Parser) parseConstraints(e *elems) {
	for p.atWord("where") && p.peekN(1).Kind == token.Ident && p.peekN(2).Kind == token.Colon {
		var c elems
		c.tok(p.advance())
		c.tok(p.advance())
		c.tok(p.advance())
		for {
			switch {
			case p.at(token.KwNew):
				c.tok(p.advance())
				p.expect(token.LParen, &c, diag.SynUnexpectedToken, "expected '('")
				p.expect(token.RParen, &c, diag.SynUnclosedDelimiter, "expected ')'")
			case p.atOr(token.KwClass, token.KwStruct, token.KwDefault):
				c.tok(p.advance())
				p.eat(token.Question, &c)
			default:
				t := p.parseType()
				if !t.IsValid() {
					e.node(p.make(syntax.ConstraintClause, c))
					return
				}
				c.node(t)
			}
			if !p.eat(token.Comma, &c) {
				break
			}
		}
		e.node(p.make(syntax.ConstraintClause, c))
	}
}

// class/struct/interface/record
func (p *Parser) parseTypeDecl(e elems) syntax.NodeID {
	if p.atRecord() {
		e.tok(p.advance())
		if p.atOr(token.KwClass, token.KwStruct) {
			e.tok(p.advance())
		}
	} else {
		e.tok(p.advance())
	}
	if !p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected type name") {
		return p.badUntil(e)
	}
	if p.at(token.Lt) {
		e.node(p.parseTypeParameterList())
	}
	if p.at(token.LParen) {
		e.node(p.parseParameterList(token.LParen, token.RParen, syntax.ParameterList))
	}
	if p.at(token.Colon) {
		e.node(p.parseBaseList())
	}
	p.parseConstraints(&e)
	if p.eat(token.Semicolon, &e) {
		return p.make(syntax.TypeDecl, e)
	}
	if !p.expect(token.LBrace, &e, diag.SynUnexpectedToken, "expected '{' after type header") {
		return p.badUntil(e)
	}
	p.parseTypeBody(&e)
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close type")
	p.eat(token.Semicolon, &e)
	return p.make(syntax.TypeDecl, e)
}

func (p *Parser) parseTypeBody(e *elems) {
	for !p.atEOF() && !p.at(token.RBrace) {
		start := p.pos
		id := p.parseMember()
		if !id.IsValid() || p.pos == start {
			p.err(diag.SynUnexpectedToken, "expected member declaration")
			id = p.badUntil(nil)
		}
		e.node(id)
	}
}

// : Base(args), IFoo
func (p *Parser) parseBaseList() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // :
	for {
		t := p.parseType()
		if !t.IsValid() {
			return p.badUntil(e)
		}
		e.node(t)
		if p.at(token.LParen) {
			e.node(p.parseArgumentList(token.LParen, token.RParen, syntax.ArgumentList))
		}
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	return p.make(syntax.BaseList, e)
}

// enum E : byte { A, B = 2, }
func (p *Parser) parseEnumDecl(e elems) syntax.NodeID {
	e.tok(p.advance()) // enum
	if !p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected enum name") {
		return p.badUntil(e)
	}
	if p.at(token.Colon) {
		e.node(p.parseBaseList())
	}
	if !p.expect(token.LBrace, &e, diag.SynUnexpectedToken, "expected '{'") {
		return p.badUntil(e)
	}
	for !p.atEOF() && !p.at(token.RBrace) {
		var m elems
		for p.at(token.LBracket) {
			m.node(p.parseAttributeList())
		}
		if !p.expect(token.Ident, &m, diag.SynExpectIdentifier, "expected enum member") {
			e.node(p.badUntil(m))
			break
		}
		if p.at(token.Assign) {
			m.node(p.parseEqualsValue())
		}
		e.node(p.make(syntax.EnumMember, m))
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close enum")
	p.eat(token.Semicolon, &e)
	return p.make(syntax.EnumDecl, e)
}

// delegate R Name<T>(params) where ...;
func (p *Parser) parseDelegateDecl(e elems) syntax.NodeID {
	e.tok(p.advance()) // delegate
	t := p.parseType()
	if !t.IsValid() {
		return p.badUntil(e)
	}
	e.node(t)
	if !p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected delegate name") {
		return p.badUntil(e)
	}
	if p.at(token.Lt) {
		e.node(p.parseTypeParameterList())
	}
	e.node(p.parseParameterList(token.LParen, token.RParen, syntax.ParameterList))
	p.parseConstraints(&e)
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after delegate")
	return p.make(syntax.DelegateDecl, e)
}

// event EventHandler Changed; или event EventHandler Changed { add {} remove {} }
func (p *Parser) parseEventDecl(e elems) syntax.NodeID {
	e.tok(p.advance()) // event
	t := p.parseType()
	if !t.IsValid() {
		return p.badUntil(e)
	}
	if p.at(token.Ident) && p.atOrN(1, token.Assign, token.Comma, token.Semicolon) {
		e.node(p.parseVarDeclaration(t))
		p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'")
		return p.make(syntax.EventDecl, e)
	}
	e.node(t)
	name := p.parseName(true)
	if !name.IsValid() {
		return p.badUntil(e)
	}
	e.node(name)
	e.node(p.parseAccessorList())
	return p.make(syntax.EventDecl, e)
}

// [target: A, B(1)]
func (p *Parser) parseAttributeList() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // [
	if (p.at(token.Ident) || p.peek().Kind.IsKeyword()) && p.peekN(1).Kind == token.Colon {
		e.tok(p.advance())
		e.tok(p.advance())
	}
	for !p.atEOF() && !p.at(token.RBracket) {
		var a elems
		name := p.parseName(true)
		if !name.IsValid() {
			p.skipBalanced(&e, token.RBracket)
			break
		}
		a.node(name)
		if p.at(token.LParen) {
			a.node(p.parseArgumentList(token.LParen, token.RParen, syntax.ArgumentList))
		}
		e.node(p.make(syntax.Attribute, a))
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(token.RBracket, &e, diag.SynUnclosedDelimiter, "expected ']' to close attribute list")
	return p.make(syntax.AttributeList, e)
}

// (ref int a, params string[] b = null) или [int i]
func (p *Parser) parseParameterList(open, closeKind token.Kind, kind syntax.Kind) syntax.NodeID {
	var e elems
	if !p.expect(open, &e, diag.SynUnexpectedToken, "expected parameter list") {
		return syntax.NoNodeID
	}
	for !p.atEOF() && !p.at(closeKind) {
		prm := p.parseParameter(false)
		if !prm.IsValid() {
			p.skipBalanced(&e, closeKind)
			break
		}
		e.node(prm)
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(closeKind, &e, diag.SynUnclosedDelimiter, "expected '"+closeKind.String()+"' to close parameter list")
	return p.make(kind, e)
}

var parameterModifiers = map[token.Kind]bool{
	token.KwRef: true, token.KwOut: true, token.KwIn: true, token.KwParams: true,
	token.KwThis: true, token.KwReadonly: true,
}

// parseParameter; в лямбдах (implicit) тип можно опустить.
func (p *Parser) parseParameter(implicit bool) syntax.NodeID {
	var e elems
	for p.at(token.LBracket) {
		e.node(p.parseAttributeList())
	}
	for parameterModifiers[p.peek().Kind] || (p.atWord("scoped") && p.peekN(1).Kind != token.Comma && p.peekN(1).Kind != token.RParen) {
		e.tok(p.advance())
	}
	if implicit && p.at(token.Ident) && p.atOrN(1, token.Comma, token.RParen) {
		e.tok(p.advance())
		return p.make(syntax.Parameter, e)
	}
	t := p.parseType()
	if !t.IsValid() {
		return syntax.NoNodeID
	}
	e.node(t)
	if !p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected parameter name") {
		return syntax.NoNodeID
	}
	if p.at(token.Assign) {
		e.node(p.parseEqualsValue())
	}
	return p.make(syntax.Parameter, e)
}

// = value (значение может быть инициализатором массива)
func (p *Parser) parseEqualsValue() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // =
	var x syntax.NodeID
	if p.at(token.LBrace) {
		x = p.parseInitializer()
	} else {
		x = p.parseExpr()
	}
	if !x.IsValid() {
		return p.make(syntax.EqualsValue, e)
	}
	e.node(x)
	return p.make(syntax.EqualsValue, e)
}

// Type a = 1, b[] , c = {1}
func (p *Parser) parseVarDeclaration(typ syntax.NodeID) syntax.NodeID {
	var e elems
	e.node(typ)
	for {
		var d elems
		if !p.expect(token.Ident, &d, diag.SynExpectIdentifier, "expected variable name") {
			break
		}
		if p.at(token.LBracket) {
			// fixed-буферы: fixed int buf[16];
			d.node(p.parseArgumentList(token.LBracket, token.RBracket, syntax.BracketedArgumentList))
		}
		if p.at(token.Assign) {
			d.node(p.parseEqualsValue())
		}
		e.node(p.make(syntax.VarDeclarator, d))
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	return p.make(syntax.VarDeclaration, e)
}
