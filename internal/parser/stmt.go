package parser

import (
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

// { stmt* }
func (p *Parser) parseBlock() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // {
	p.parseStatements(&e, func() bool { return p.at(token.RBrace) })
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close block")
	return p.make(syntax.Block, e)
}

// parseStatements читает операторы до stop() или EOF, гарантируя продвижение.
func (p *Parser) parseStatements(e *elems, stop func() bool) {
	for !p.atEOF() && !stop() {
		start := p.pos
		id := p.parseStatement()
		if p.pos == start {
			if p.at(token.RBrace) {
				// чужая '}' — выходим, её заберёт внешний уровень
				return
			}
			var bad elems
			bad.node(id)
			bad.tok(p.advance())
			id = p.make(syntax.Bad, bad)
		}
		e.node(id)
	}
}

func (p *Parser) parseStatement() syntax.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		var e elems
		e.tok(p.advance())
		return p.make(syntax.EmptyStmt, e)
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwForeach:
		return p.parseForeach(nil)
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDo()
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwBreak:
		return p.parseSimpleJump(syntax.BreakStmt)
	case token.KwContinue:
		return p.parseSimpleJump(syntax.ContinueStmt)
	case token.KwReturn:
		return p.parseJumpWithValue(syntax.ReturnStmt)
	case token.KwThrow:
		return p.parseJumpWithValue(syntax.ThrowStmt)
	case token.KwGoto:
		return p.parseGoto()
	case token.KwLock:
		return p.parseParenStmt(syntax.LockStmt)
	case token.KwFixed:
		return p.parseFixed()
	case token.KwUsing:
		return p.parseUsingStmt(nil)
	case token.KwChecked, token.KwUnchecked:
		if p.peekN(1).Kind == token.LBrace {
			var e elems
			e.tok(p.advance())
			e.node(p.parseBlock())
			return p.make(syntax.CheckedStmt, e)
		}
	case token.KwUnsafe:
		if p.peekN(1).Kind == token.LBrace {
			var e elems
			e.tok(p.advance())
			e.node(p.parseBlock())
			return p.make(syntax.UnsafeStmt, e)
		}
	case token.KwConst:
		var e elems
		e.tok(p.advance())
		return p.parseLocalDecl(e)
	case token.Ident:
		switch {
		case p.peekN(1).Kind == token.Colon:
			var e elems
			e.tok(p.advance())
			e.tok(p.advance())
			e.node(p.parseStatement())
			return p.make(syntax.LabeledStmt, e)
		case tok.Text == "yield" && p.atOrN(1, token.KwReturn, token.KwBreak):
			return p.parseYield()
		case tok.Text == "await" && p.peekN(1).Kind == token.KwForeach:
			var e elems
			e.tok(p.advance())
			return p.parseForeach(e)
		case tok.Text == "await" && p.peekN(1).Kind == token.KwUsing:
			var e elems
			e.tok(p.advance())
			return p.parseUsingStmt(e)
		}
	}

	if p.atLocalFunction() {
		return p.parseLocalFunction()
	}
	if p.atLocalDecl() {
		return p.parseLocalDecl(nil)
	}
	return p.parseExpressionStmt()
}

func (p *Parser) parseExpressionStmt() syntax.NodeID {
	var e elems
	x := p.parseExpr()
	if !x.IsValid() {
		return p.badUntil(e)
	}
	e.node(x)
	if !p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after expression") {
		return p.badUntil(e)
	}
	return p.make(syntax.ExpressionStmt, e)
}

// localPrefix — ref, ref readonly, scoped перед типом локальной переменной.
func (p *Parser) localPrefix(e *elems) {
	for {
		switch {
		case p.at(token.KwRef), p.at(token.KwReadonly):
			e.tok(p.advance())
		case p.atWord("scoped") && p.peekN(1).Kind != token.Assign && p.peekN(1).Kind != token.Semicolon:
			e.tok(p.advance())
		default:
			return
		}
	}
}

// await x; — выражение, а не объявление переменной типа await
func (p *Parser) atAwaitExpr() bool {
	return p.atWord("await") && p.awaitOperand()
}

func (p *Parser) atLocalDecl() bool {
	if p.atAwaitExpr() {
		return false
	}
	return p.lookahead(func() bool {
		var e elems
		p.localPrefix(&e)
		if !p.parseType().IsValid() || !p.at(token.Ident) {
			return false
		}
		return p.atOrN(1, token.Assign, token.Semicolon, token.Comma)
	})
}

// Type x = 1, y;  (e — уже съеденные const/using/await)
func (p *Parser) parseLocalDecl(e elems) syntax.NodeID {
	p.localPrefix(&e)
	t := p.parseType()
	if !t.IsValid() {
		return p.badUntil(e)
	}
	e.node(p.parseVarDeclaration(t))
	if !p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after declaration") {
		return p.badUntil(e)
	}
	return p.make(syntax.LocalDeclStmt, e)
}

var localFunctionModifiers = map[string]bool{"async": true, "static": true, "unsafe": true, "extern": true}

func (p *Parser) localFunctionModifier() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.KwStatic, token.KwUnsafe, token.KwExtern:
		return p.peekN(1).Kind != token.LBrace
	case token.Ident:
		return localFunctionModifiers[tok.Text] && (p.peekN(1).Kind == token.Ident || p.peekN(1).Kind.IsKeyword())
	}
	return false
}

func (p *Parser) atLocalFunction() bool {
	if p.atAwaitExpr() {
		return false
	}
	return p.lookahead(func() bool {
		for p.localFunctionModifier() {
			p.advance()
		}
		if !p.parseType().IsValid() || !p.at(token.Ident) {
			return false
		}
		return p.atOrN(1, token.LParen, token.Lt)
	})
}

func (p *Parser) parseLocalFunction() syntax.NodeID {
	var e elems
	for p.localFunctionModifier() {
		e.tok(p.advance())
	}
	e.node(p.parseType())
	e.tok(p.advance()) // имя
	return p.parseMethodRest(e, syntax.LocalFunctionStmt)
}

// '(' expr ')' — общий кусок if/while/switch/lock.
func (p *Parser) parseParenCondition(e *elems) bool {
	if !p.expect(token.LParen, e, diag.SynUnexpectedToken, "expected '('") {
		return false
	}
	x := p.parseExpr()
	if !x.IsValid() {
		p.skipBalanced(e, token.RParen)
	}
	e.node(x)
	return p.expect(token.RParen, e, diag.SynUnclosedDelimiter, "expected ')'")
}

// parseEmbedded — тело if/for/while; объявление там недопустимо, но
// разбираем как обычный оператор.
func (p *Parser) parseEmbedded(e *elems) {
	if p.atEOF() || p.at(token.RBrace) {
		p.err(diag.SynExpectStatement, "expected statement")
		return
	}
	e.node(p.parseStatement())
}

func (p *Parser) parseIf() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // if
	if !p.parseParenCondition(&e) {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	if p.at(token.KwElse) {
		var el elems
		el.tok(p.advance())
		p.parseEmbedded(&el)
		e.node(p.make(syntax.ElseClause, el))
	}
	return p.make(syntax.IfStmt, e)
}

func (p *Parser) parseWhile() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.parseParenCondition(&e) {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	return p.make(syntax.WhileStmt, e)
}

func (p *Parser) parseParenStmt(kind syntax.Kind) syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.parseParenCondition(&e) {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	return p.make(kind, e)
}

// do stmt while (cond);
func (p *Parser) parseDo() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	p.parseEmbedded(&e)
	if !p.expect(token.KwWhile, &e, diag.SynUnexpectedToken, "expected 'while' after do body") {
		return p.badUntil(e)
	}
	if !p.parseParenCondition(&e) {
		return p.badUntil(e)
	}
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' after do-while")
	return p.make(syntax.DoStmt, e)
}

// for (init; cond; step) stmt
func (p *Parser) parseFor() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.expect(token.LParen, &e, diag.SynUnexpectedToken, "expected '('") {
		return p.badUntil(e)
	}
	if !p.at(token.Semicolon) {
		if p.atLocalDecl() {
			p.localPrefix(&e)
			e.node(p.parseVarDeclaration(p.parseType()))
		} else {
			p.parseExprList(&e, token.Semicolon)
		}
	}
	if !p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' in for") {
		return p.badUntil(e)
	}
	if !p.at(token.Semicolon) {
		e.node(p.parseExpr())
	}
	if !p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';' in for") {
		return p.badUntil(e)
	}
	if !p.at(token.RParen) {
		p.parseExprList(&e, token.RParen)
	}
	if !p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')'") {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	return p.make(syntax.ForStmt, e)
}

func (p *Parser) parseExprList(e *elems, stop token.Kind) {
	for {
		x := p.parseExpr()
		if !x.IsValid() {
			p.skipBalanced(e, stop)
			return
		}
		e.node(x)
		if !p.eat(token.Comma, e) {
			return
		}
	}
}

// [await] foreach (Type x in expr) stmt
func (p *Parser) parseForeach(e elems) syntax.NodeID {
	e.tok(p.advance()) // foreach
	if !p.expect(token.LParen, &e, diag.SynUnexpectedToken, "expected '('") {
		return p.badUntil(e)
	}
	if p.isTypeThenIdent(token.KwIn) {
		var d elems
		d.node(p.parseType())
		d.tok(p.advance())
		e.node(p.make(syntax.DeclarationExpr, d))
	} else {
		// var (a, b) in ...
		x := p.parseUnary()
		if !x.IsValid() {
			return p.badUntil(e)
		}
		e.node(x)
	}
	if !p.expect(token.KwIn, &e, diag.SynUnexpectedToken, "expected 'in'") {
		return p.badUntil(e)
	}
	if !p.parseParenTail(&e) {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	return p.make(syntax.ForeachStmt, e)
}

// expr ')'
func (p *Parser) parseParenTail(e *elems) bool {
	x := p.parseExpr()
	if !x.IsValid() {
		p.skipBalanced(e, token.RParen)
	}
	e.node(x)
	return p.expect(token.RParen, e, diag.SynUnclosedDelimiter, "expected ')'")
}

// try {} catch (E e) when (...) {} finally {}
func (p *Parser) parseTry() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' after try")
		return p.badUntil(e)
	}
	e.node(p.parseBlock())
	for p.at(token.KwCatch) {
		var c elems
		c.tok(p.advance())
		if p.at(token.LParen) {
			var d elems
			d.tok(p.advance())
			if t := p.parseType(); t.IsValid() {
				d.node(t)
			}
			p.eat(token.Ident, &d)
			p.expect(token.RParen, &d, diag.SynUnclosedDelimiter, "expected ')'")
			c.node(p.make(syntax.CatchDecl, d))
		}
		if p.atWord("when") {
			var f elems
			f.tok(p.advance())
			p.parseParenCondition(&f)
			c.node(p.make(syntax.CatchFilter, f))
		}
		if !p.at(token.LBrace) {
			p.err(diag.SynUnexpectedToken, "expected '{' after catch")
			e.node(p.badUntil(c))
			return p.make(syntax.TryStmt, e)
		}
		c.node(p.parseBlock())
		e.node(p.make(syntax.CatchClause, c))
	}
	if p.at(token.KwFinally) {
		var f elems
		f.tok(p.advance())
		if p.at(token.LBrace) {
			f.node(p.parseBlock())
		} else {
			p.err(diag.SynUnexpectedToken, "expected '{' after finally")
		}
		e.node(p.make(syntax.FinallyClause, f))
	}
	return p.make(syntax.TryStmt, e)
}

// switch (x) { case 1: ... default: ... }
func (p *Parser) parseSwitch() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.parseParenCondition(&e) {
		return p.badUntil(e)
	}
	if !p.expect(token.LBrace, &e, diag.SynUnexpectedToken, "expected '{' after switch") {
		return p.badUntil(e)
	}
	for p.atSwitchLabel() {
		var sec elems
		for p.atSwitchLabel() {
			sec.node(p.parseSwitchLabel())
		}
		p.parseStatements(&sec, func() bool { return p.at(token.RBrace) || p.atSwitchLabel() })
		e.node(p.make(syntax.SwitchSection, sec))
	}
	if !p.at(token.RBrace) {
		p.err(diag.SynUnexpectedToken, "expected 'case' or 'default'")
		p.skipBalanced(&e, token.RBrace)
	}
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close switch")
	return p.make(syntax.SwitchStmt, e)
}

func (p *Parser) atSwitchLabel() bool {
	return p.at(token.KwCase) || (p.at(token.KwDefault) && p.peekN(1).Kind == token.Colon)
}

func (p *Parser) parseSwitchLabel() syntax.NodeID {
	var e elems
	if p.at(token.KwDefault) {
		e.tok(p.advance())
		e.tok(p.advance())
		return p.make(syntax.DefaultLabel, e)
	}
	e.tok(p.advance()) // case
	e.node(p.parsePattern())
	if p.atWord("when") {
		e.node(p.parseWhenClause())
	}
	p.expect(token.Colon, &e, diag.SynUnexpectedToken, "expected ':' after case label")
	return p.make(syntax.CaseLabel, e)
}

func (p *Parser) parseWhenClause() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // when
	e.node(p.parseExpr())
	return p.make(syntax.WhenClause, e)
}

func (p *Parser) parseSimpleJump(kind syntax.Kind) syntax.NodeID {
	var e elems
	e.tok(p.advance())
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'")
	return p.make(kind, e)
}

// return [expr]; throw [expr];
func (p *Parser) parseJumpWithValue(kind syntax.Kind) syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.at(token.Semicolon) {
		x := p.parseExpr()
		if !x.IsValid() {
			return p.badUntil(e)
		}
		e.node(x)
	}
	if !p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'") {
		return p.badUntil(e)
	}
	return p.make(kind, e)
}

// goto label; goto case 1; goto default;
func (p *Parser) parseGoto() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	switch {
	case p.at(token.KwCase):
		e.tok(p.advance())
		e.node(p.parseExpr())
	case p.at(token.KwDefault):
		e.tok(p.advance())
	default:
		p.expect(token.Ident, &e, diag.SynExpectIdentifier, "expected label")
	}
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'")
	return p.make(syntax.GotoStmt, e)
}

// yield return x; yield break;
func (p *Parser) parseYield() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if p.at(token.KwBreak) {
		e.tok(p.advance())
	} else {
		e.tok(p.advance())
		x := p.parseExpr()
		if !x.IsValid() {
			return p.badUntil(e)
		}
		e.node(x)
	}
	p.expect(token.Semicolon, &e, diag.SynExpectSemicolon, "expected ';'")
	return p.make(syntax.YieldStmt, e)
}

// fixed (int* p = arr) stmt
func (p *Parser) parseFixed() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.expect(token.LParen, &e, diag.SynUnexpectedToken, "expected '('") {
		return p.badUntil(e)
	}
	t := p.parseType()
	if !t.IsValid() {
		return p.badUntil(e)
	}
	e.node(p.parseVarDeclaration(t))
	if !p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')'") {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	return p.make(syntax.FixedStmt, e)
}

// using (res) stmt; using var x = ...; (e — возможный await)
func (p *Parser) parseUsingStmt(e elems) syntax.NodeID {
	if p.peekN(1).Kind != token.LParen {
		e.tok(p.advance()) // using
		return p.parseLocalDecl(e)
	}
	e.tok(p.advance()) // using
	e.tok(p.advance()) // (
	if p.atLocalDecl() {
		p.localPrefix(&e)
		e.node(p.parseVarDeclaration(p.parseType()))
	} else {
		x := p.parseExpr()
		if !x.IsValid() {
			p.skipBalanced(&e, token.RParen)
		}
		e.node(x)
	}
	if !p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')'") {
		return p.badUntil(e)
	}
	p.parseEmbedded(&e)
	return p.make(syntax.UsingStmt, e)
}
