package parser

import (
	"cslayout/internal/diag"
	"cslayout/internal/syntax"
	"cslayout/internal/token"
)

func (p *Parser) parseExpr() syntax.NodeID {
	if p.atLambda() {
		return p.parseLambda()
	}
	if p.atQuery() {
		return p.parseQuery()
	}
	left := p.parseConditional()
	if !left.IsValid() {
		return left
	}
	var e elems
	switch {
	case p.peek().Kind.IsAssignment():
		e.node(left)
		e.tok(p.advance())
	case p.at(token.Gt) && p.adjacent(1, token.GtEq):
		// >>=
		e.node(left)
		e.tok(p.advance())
		e.tok(p.advance())
	case p.at(token.Gt) && p.adjacent(1, token.Gt) && p.adjacent(2, token.GtEq):
		// >>>=
		e.node(left)
		e.tok(p.advance())
		e.tok(p.advance())
		e.tok(p.advance())
	default:
		return left
	}
	var right syntax.NodeID
	switch {
	case p.at(token.LBrace):
		// вложенный инициализатор: Items = { 1, 2 }
		right = p.parseInitializer()
	case p.at(token.KwRef):
		right = p.parseRef()
	default:
		right = p.parseExpr()
	}
	e.node(right)
	return p.make(syntax.AssignExpr, e)
}

// adjacent: токен на n позиций вперёд вида k и вплотную к предыдущему.
func (p *Parser) adjacent(n int, k token.Kind) bool {
	if p.pos+n >= len(p.toks) {
		return false
	}
	return p.toks[p.pos+n].Kind == k && p.toks[p.pos+n-1].Span.End == p.toks[p.pos+n].Span.Start
}

// cond ? a : b
func (p *Parser) parseConditional() syntax.NodeID {
	cond := p.parseCoalesce()
	if !cond.IsValid() || !p.at(token.Question) {
		return cond
	}
	var e elems
	e.node(cond)
	e.tok(p.advance())
	e.node(p.parseBranch())
	if !p.expect(token.Colon, &e, diag.SynUnexpectedToken, "expected ':' in conditional expression") {
		return p.make(syntax.ConditionalExpr, e)
	}
	e.node(p.parseBranch())
	return p.make(syntax.ConditionalExpr, e)
}

func (p *Parser) parseBranch() syntax.NodeID {
	if p.at(token.KwRef) {
		return p.parseRef()
	}
	return p.parseExpr()
}

// a ?? b — правоассоциативен
func (p *Parser) parseCoalesce() syntax.NodeID {
	left := p.parseBinary(0)
	if !left.IsValid() || !p.at(token.QuestionQuestion) {
		return left
	}
	var e elems
	e.node(left)
	e.tok(p.advance())
	e.node(p.parseCoalesce())
	return p.make(syntax.BinaryExpr, e)
}

// уровни бинарных операторов от слабого к сильному
var binaryLevels = [][]token.Kind{
	{token.OrOr},
	{token.AndAnd},
	{token.Pipe},
	{token.Caret},
	{token.Amp},
	{token.EqEq, token.BangEq},
	{token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwIs, token.KwAs},
	{token.Shl, token.Gt}, // '>' здесь только как часть '>>'
	{token.Plus, token.Minus},
	{token.Star, token.Slash, token.Percent},
}

const (
	relationalLevel = 6
	shiftLevel      = 7
)

func (p *Parser) parseBinary(level int) syntax.NodeID {
	if level == len(binaryLevels) {
		return p.parseSwitchOrWith()
	}
	left := p.parseBinary(level + 1)
	for left.IsValid() {
		n, ok := p.binaryOp(level)
		if !ok {
			return left
		}
		var e elems
		e.node(left)
		op := p.peek().Kind
		for range n {
			e.tok(p.advance())
		}
		switch {
		case op == token.KwIs:
			e.node(p.parsePattern())
		case op == token.KwAs:
			e.node(p.parseType())
		default:
			e.node(p.parseBinary(level + 1))
		}
		left = p.make(syntax.BinaryExpr, e)
	}
	return left
}

// binaryOp: есть ли оператор уровня level и из скольких токенов он состоит.
func (p *Parser) binaryOp(level int) (int, bool) {
	k := p.peek().Kind
	found := false
	for _, want := range binaryLevels[level] {
		if k == want {
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}
	shift := p.at(token.Gt) && p.adjacent(1, token.Gt)
	switch level {
	case relationalLevel:
		if k == token.Gt && (shift || p.adjacent(1, token.GtEq)) {
			return 0, false
		}
	case shiftLevel:
		if k == token.Gt {
			if !shift {
				return 0, false
			}
			switch {
			case p.adjacent(2, token.GtEq):
				return 0, false // >>>=
			case p.adjacent(2, token.Gt):
				return 3, true // >>>
			}
			return 2, true
		}
	}
	return 1, true
}

// x switch { ... } и x with { ... }
func (p *Parser) parseSwitchOrWith() syntax.NodeID {
	left := p.parseRange()
	for left.IsValid() {
		switch {
		case p.at(token.KwSwitch) && p.peekN(1).Kind == token.LBrace:
			left = p.parseSwitchExpr(left)
		case p.atWord("with") && p.peekN(1).Kind == token.LBrace:
			var e elems
			e.node(left)
			e.tok(p.advance())
			e.node(p.parseInitializer())
			left = p.make(syntax.WithExpr, e)
		default:
			return left
		}
	}
	return left
}

func (p *Parser) parseSwitchExpr(left syntax.NodeID) syntax.NodeID {
	var e elems
	e.node(left)
	e.tok(p.advance()) // switch
	e.tok(p.advance()) // {
	for !p.atEOF() && !p.at(token.RBrace) {
		var a elems
		pat := p.parsePattern()
		if !pat.IsValid() {
			p.skipBalanced(&e, token.RBrace)
			break
		}
		a.node(pat)
		if p.atWord("when") {
			a.node(p.parseWhenClause())
		}
		if !p.expect(token.FatArrow, &a, diag.SynUnexpectedToken, "expected '=>' in switch arm") {
			e.node(p.make(syntax.SwitchArm, a))
			p.skipBalanced(&e, token.RBrace)
			break
		}
		a.node(p.parseExpr())
		e.node(p.make(syntax.SwitchArm, a))
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close switch expression")
	return p.make(syntax.SwitchExpr, e)
}

// ..  a..  ..b  a..b
func (p *Parser) parseRange() syntax.NodeID {
	if p.at(token.DotDot) {
		var e elems
		e.tok(p.advance())
		if p.canStartExpr() {
			e.node(p.parseUnary())
		}
		return p.make(syntax.RangeExpr, e)
	}
	left := p.parseUnary()
	if !left.IsValid() || !p.at(token.DotDot) {
		return left
	}
	var e elems
	e.node(left)
	e.tok(p.advance())
	if p.canStartExpr() {
		e.node(p.parseUnary())
	}
	return p.make(syntax.RangeExpr, e)
}

func (p *Parser) canStartExpr() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit,
		token.LParen, token.LBracket, token.Plus, token.Minus, token.Bang, token.Tilde,
		token.PlusPlus, token.MinusMinus, token.Caret, token.Amp, token.Star,
		token.KwThis, token.KwBase, token.KwNew, token.KwTypeof, token.KwDefault,
		token.KwTrue, token.KwFalse, token.KwNull, token.KwSizeof, token.KwChecked,
		token.KwUnchecked, token.KwDelegate, token.KwStackalloc, token.KwThrow, token.KwRef:
		return true
	}
	return tok.Kind.IsPredefinedType()
}

var prefixOps = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Bang: true, token.Tilde: true,
	token.PlusPlus: true, token.MinusMinus: true, token.Amp: true, token.Star: true,
	token.Caret: true,
}

func (p *Parser) parseUnary() syntax.NodeID {
	var e elems
	switch {
	case prefixOps[p.peek().Kind]:
		e.tok(p.advance())
	case p.atWord("await") && p.peekN(1).Kind != token.Semicolon && p.awaitOperand():
		e.tok(p.advance())
	case p.at(token.KwThrow):
		e.tok(p.advance())
		e.node(p.parseExpr())
		return p.make(syntax.ThrowExpr, e)
	case p.at(token.LParen) && p.atCast():
		e.tok(p.advance())
		e.node(p.parseType())
		e.tok(p.advance())
		x := p.parseUnary()
		e.node(x)
		return p.make(syntax.CastExpr, e)
	default:
		return p.parsePostfix(p.parsePrimary())
	}
	x := p.parseUnary()
	e.node(x)
	return p.make(syntax.UnaryExpr, e)
}

// awaitOperand: после await идёт выражение, а не оператор (await как имя).
func (p *Parser) awaitOperand() bool {
	next := p.peekN(1)
	switch next.Kind {
	case token.Ident, token.LParen, token.KwThis, token.KwBase, token.KwNew, token.KwTypeof,
		token.KwDefault, token.StringLit, token.KwNull, token.LBracket:
		return true
	}
	return next.Kind.IsPredefinedType()
}

// atCast распознаёт (T)x. После ')' должен начинаться операнд; для встроенных
// типов допускаем и унарные операторы: (int)-x.
func (p *Parser) atCast() bool {
	return p.lookahead(func() bool {
		p.advance() // (
		predefined := p.peek().Kind.IsPredefinedType()
		t := p.parseType()
		if !t.IsValid() || !p.at(token.RParen) {
			return false
		}
		if p.b.NodeKind(t) != syntax.PredefinedType {
			predefined = false
		}
		p.advance() // )
		switch p.peek().Kind {
		case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit,
			token.LParen, token.KwThis, token.KwBase, token.KwNew, token.KwTypeof,
			token.KwDefault, token.KwTrue, token.KwFalse, token.KwNull, token.KwSizeof,
			token.KwChecked, token.KwUnchecked, token.Bang, token.Tilde, token.KwStackalloc,
			token.KwDelegate:
			return true
		case token.Minus, token.Plus, token.PlusPlus, token.MinusMinus, token.Amp, token.Star:
			return predefined
		}
		return p.peek().Kind.IsPredefinedType()
	})
}

// parsePostfix: .name ?.name (args) [idx] ++ -- ! ->
func (p *Parser) parsePostfix(left syntax.NodeID) syntax.NodeID {
	for left.IsValid() {
		var e elems
		e.node(left)
		switch {
		case p.atOr(token.Dot, token.Arrow):
			e.tok(p.advance())
			name := p.parseName(false)
			if !name.IsValid() {
				return p.make(syntax.MemberAccess, e)
			}
			e.node(name)
			left = p.make(syntax.MemberAccess, e)
		case p.at(token.QuestionDot):
			e.tok(p.advance())
			name := p.parseName(false)
			if !name.IsValid() {
				return p.make(syntax.ConditionalAccess, e)
			}
			e.node(name)
			left = p.make(syntax.ConditionalAccess, e)
		case p.at(token.Question) && p.adjacent(1, token.LBracket) && p.adjacent(0, token.Question):
			// a?[i]
			e.tok(p.advance())
			e.node(p.parseArgumentList(token.LBracket, token.RBracket, syntax.BracketedArgumentList))
			left = p.make(syntax.ConditionalAccess, e)
		case p.at(token.LParen):
			e.node(p.parseArgumentList(token.LParen, token.RParen, syntax.ArgumentList))
			left = p.make(syntax.Invocation, e)
		case p.at(token.LBracket):
			e.node(p.parseArgumentList(token.LBracket, token.RBracket, syntax.BracketedArgumentList))
			left = p.make(syntax.ElementAccess, e)
		case p.atOr(token.PlusPlus, token.MinusMinus):
			e.tok(p.advance())
			left = p.make(syntax.PostfixExpr, e)
		case p.at(token.Bang) && p.adjacent(0, token.Bang) && !p.startsOperand(1):
			// null-forgiving: x!
			e.tok(p.advance())
			left = p.make(syntax.PostfixExpr, e)
		default:
			return left
		}
	}
	return left
}

func (p *Parser) startsOperand(n int) bool {
	switch p.peekN(n).Kind {
	case token.Ident, token.IntLit, token.RealLit, token.CharLit, token.StringLit, token.LParen:
		return true
	}
	return false
}

func (p *Parser) parsePrimary() syntax.NodeID {
	var e elems
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.RealLit, token.CharLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNull:
		e.tok(p.advance())
		return p.make(syntax.Literal, e)
	case token.KwDefault:
		if p.peekN(1).Kind == token.LParen {
			return p.parseKeywordCall(true)
		}
		e.tok(p.advance())
		return p.make(syntax.Literal, e)
	case token.KwTypeof, token.KwSizeof:
		return p.parseKeywordCall(true)
	case token.KwChecked, token.KwUnchecked:
		return p.parseKeywordCall(false)
	case token.Ident:
		return p.parseName(false)
	case token.KwThis:
		e.tok(p.advance())
		return p.make(syntax.ThisExpr, e)
	case token.KwBase:
		e.tok(p.advance())
		return p.make(syntax.BaseExpr, e)
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		return p.parseCollection()
	case token.KwNew:
		return p.parseNew()
	case token.KwDelegate:
		return p.parseAnonymousMethod()
	case token.KwStackalloc:
		e.tok(p.advance())
		if p.at(token.LBracket) {
			e.node(p.parseRankSpecifier())
		} else {
			e.node(p.parseNonArrayType())
			if p.at(token.LBracket) {
				e.node(p.parseArgumentList(token.LBracket, token.RBracket, syntax.BracketedArgumentList))
			}
		}
		if p.at(token.LBrace) {
			e.node(p.parseInitializer())
		}
		return p.make(syntax.StackAllocExpr, e)
	case token.KwRef:
		return p.parseRef()
	}
	if tok.Kind.IsPredefinedType() {
		e.tok(p.advance())
		return p.make(syntax.PredefinedType, e)
	}
	p.err(diag.SynExpectExpression, "expected expression")
	return syntax.NoNodeID
}

// typeof(T), sizeof(T), default(T), checked(x)
func (p *Parser) parseKeywordCall(typeArg bool) syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if !p.expect(token.LParen, &e, diag.SynUnexpectedToken, "expected '('") {
		return p.make(syntax.KeywordCall, e)
	}
	if typeArg {
		e.node(p.parseType())
	} else {
		e.node(p.parseExpr())
	}
	p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')'")
	return p.make(syntax.KeywordCall, e)
}

func (p *Parser) parseRef() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // ref
	e.node(p.parseExpr())
	return p.make(syntax.RefExpr, e)
}

// (x) или (a, b)
func (p *Parser) parseParenOrTuple() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	first := p.parseArgument()
	if !first.IsValid() {
		p.skipBalanced(&e, token.RParen)
		p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')'")
		return p.make(syntax.ParenExpr, e)
	}
	kind := syntax.ParenExpr
	if p.at(token.Comma) {
		kind = syntax.TupleExpr
		e.node(first)
		for p.eat(token.Comma, &e) {
			e.node(p.parseArgument())
		}
	} else {
		// одиночное выражение в скобках не оборачиваем в Argument
		e.node(p.unwrapArgument(first))
	}
	p.expect(token.RParen, &e, diag.SynUnclosedDelimiter, "expected ')'")
	return p.make(kind, e)
}

func (p *Parser) unwrapArgument(id syntax.NodeID) syntax.NodeID {
	n := p.b.NodeAt(id)
	if n != nil && len(n.Children) == 1 && n.Children[0].IsNode() {
		return n.Children[0].Node
	}
	return id
}

// [1, 2, ..rest]
func (p *Parser) parseCollection() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	for !p.atEOF() && !p.at(token.RBracket) {
		x := p.parseExpr()
		if !x.IsValid() {
			p.skipBalanced(&e, token.RBracket)
			break
		}
		e.node(x)
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(token.RBracket, &e, diag.SynUnclosedDelimiter, "expected ']'")
	return p.make(syntax.InitializerExpr, e)
}

// parseNew: new T(args) {init}, new T[n], new[] {..}, new {..}, new(args)
func (p *Parser) parseNew() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // new
	switch {
	case p.at(token.LParen):
		e.node(p.parseArgumentList(token.LParen, token.RParen, syntax.ArgumentList))
		if p.at(token.LBrace) {
			e.node(p.parseInitializer())
		}
		return p.make(syntax.ImplicitObjectCreation, e)
	case p.at(token.LBracket):
		e.node(p.parseRankSpecifier())
		if p.at(token.LBrace) {
			e.node(p.parseInitializer())
		}
		return p.make(syntax.ImplicitArrayCreation, e)
	case p.at(token.LBrace):
		e.node(p.parseInitializer())
		return p.make(syntax.AnonymousObjectCreation, e)
	}
	t := p.parseNonArrayType()
	if !t.IsValid() {
		return p.make(syntax.ObjectCreation, e)
	}
	e.node(t)
	if p.at(token.LBracket) {
		if !p.atRankSpecifier() {
			e.node(p.parseArgumentList(token.LBracket, token.RBracket, syntax.BracketedArgumentList))
		}
		for p.at(token.LBracket) && p.atRankSpecifier() {
			e.node(p.parseRankSpecifier())
		}
		if p.at(token.LBrace) {
			e.node(p.parseInitializer())
		}
		return p.make(syntax.ArrayCreation, e)
	}
	if p.at(token.LParen) {
		e.node(p.parseArgumentList(token.LParen, token.RParen, syntax.ArgumentList))
	}
	if p.at(token.LBrace) {
		e.node(p.parseInitializer())
	}
	return p.make(syntax.ObjectCreation, e)
}

// { a, b = 1, [0] = x, { 1, 2 } }
func (p *Parser) parseInitializer() syntax.NodeID {
	var e elems
	e.tok(p.advance()) // {
	for !p.atEOF() && !p.at(token.RBrace) {
		var x syntax.NodeID
		if p.at(token.LBrace) {
			x = p.parseInitializer()
		} else {
			x = p.parseExpr()
		}
		if !x.IsValid() {
			p.skipBalanced(&e, token.RBrace)
			break
		}
		e.node(x)
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(token.RBrace, &e, diag.SynUnclosedDelimiter, "expected '}' to close initializer")
	return p.make(syntax.InitializerExpr, e)
}

// delegate (int x) { ... }
func (p *Parser) parseAnonymousMethod() syntax.NodeID {
	var e elems
	e.tok(p.advance())
	if p.at(token.LParen) {
		e.node(p.parseParameterList(token.LParen, token.RParen, syntax.ParameterList))
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' in anonymous method")
		return p.make(syntax.AnonymousMethod, e)
	}
	e.node(p.parseBlock())
	return p.make(syntax.AnonymousMethod, e)
}

// parseArgumentList — (a, b) или [i, j]
func (p *Parser) parseArgumentList(open, closeKind token.Kind, kind syntax.Kind) syntax.NodeID {
	var e elems
	if !p.expect(open, &e, diag.SynUnexpectedToken, "expected '"+open.String()+"'") {
		return p.make(kind, e)
	}
	for !p.atEOF() && !p.at(closeKind) {
		a := p.parseArgument()
		if !a.IsValid() {
			p.skipBalanced(&e, closeKind)
			break
		}
		e.node(a)
		if !p.eat(token.Comma, &e) {
			break
		}
	}
	p.expect(closeKind, &e, diag.SynUnclosedDelimiter, "expected '"+closeKind.String()+"'")
	return p.make(kind, e)
}

// [name:] [ref|out|in] expr   или   out var x
func (p *Parser) parseArgument() syntax.NodeID {
	var e elems
	if p.at(token.Ident) && p.peekN(1).Kind == token.Colon {
		e.tok(p.advance())
		e.tok(p.advance())
	}
	if p.atOr(token.KwRef, token.KwOut, token.KwIn) {
		e.tok(p.advance())
	}
	var x syntax.NodeID
	if p.isTypeThenIdent(token.Comma, token.RParen, token.RBracket, token.Assign) && !p.atWord("await") {
		var d elems
		d.node(p.parseType())
		d.tok(p.advance())
		x = p.make(syntax.DeclarationExpr, d)
	} else {
		x = p.parseExpr()
	}
	if !x.IsValid() {
		return syntax.NoNodeID
	}
	e.node(x)
	return p.make(syntax.Argument, e)
}

// atLambda: [async|static] x =>  или  [async|static] (...) =>
func (p *Parser) atLambda() bool {
	i := 0
	for {
		tok := p.peekN(i)
		if (tok.Is("async") || tok.Kind == token.KwStatic) && p.peekN(i+1).Kind != token.FatArrow {
			next := p.peekN(i + 1).Kind
			if next == token.Ident || next == token.LParen || next == token.KwStatic {
				i++
				continue
			}
		}
		break
	}
	switch p.peekN(i).Kind {
	case token.Ident:
		return p.peekN(i+1).Kind == token.FatArrow
	case token.LParen:
		end := p.matchingParen(p.pos + i)
		return end > 0 && end+1 < len(p.toks) && p.toks[end+1].Kind == token.FatArrow
	}
	return false
}

// matchingParen — индекс закрывающей скобки для '(' в позиции open, или -1.
func (p *Parser) matchingParen(open int) int {
	depth := 0
	for i := open; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
			if depth == 0 {
				if p.toks[i].Kind != token.RParen {
					return -1
				}
				return i
			}
		case token.Semicolon, token.EOF:
			return -1
		}
	}
	return -1
}

func (p *Parser) parseLambda() syntax.NodeID {
	var e elems
	for !p.at(token.FatArrow) && (p.atWord("async") || p.at(token.KwStatic)) && p.peekN(1).Kind != token.FatArrow {
		e.tok(p.advance())
	}
	if p.at(token.Ident) {
		var prm elems
		prm.tok(p.advance())
		e.node(p.make(syntax.Parameter, prm))
	} else {
		var ps elems
		ps.tok(p.advance()) // (
		for !p.atEOF() && !p.at(token.RParen) {
			prm := p.parseParameter(true)
			if !prm.IsValid() {
				p.skipBalanced(&ps, token.RParen)
				break
			}
			ps.node(prm)
			if !p.eat(token.Comma, &ps) {
				break
			}
		}
		p.expect(token.RParen, &ps, diag.SynUnclosedDelimiter, "expected ')'")
		e.node(p.make(syntax.ParameterList, ps))
	}
	e.tok(p.advance()) // =>
	if p.at(token.LBrace) {
		e.node(p.parseBlock())
	} else if p.at(token.KwRef) {
		e.node(p.parseRef())
	} else {
		e.node(p.parseExpr())
	}
	return p.make(syntax.LambdaExpr, e)
}

// atQuery: from x in ...  или  from T x in ...
func (p *Parser) atQuery() bool {
	if !p.atWord("from") {
		return false
	}
	next := p.peekN(1).Kind
	return (next == token.Ident || next.IsPredefinedType()) && (p.peekN(2).Kind == token.KwIn || p.peekN(3).Kind == token.KwIn)
}

// parseQuery: LINQ-выражение целиком как последовательность токенов с
// вложенными узлами для лямбд не разбираем; границей служит ')' ']' '}' ';' ','
// на нулевой глубине.
func (p *Parser) parseQuery() syntax.NodeID {
	var e elems
	p.skipBalanced(&e, token.RParen, token.RBracket, token.RBrace, token.Semicolon, token.Comma)
	return p.make(syntax.QueryExpr, e)
}

// patternStops — токены, завершающие шаблон на нулевой глубине скобок.
var patternStops = []token.Kind{
	token.Colon, token.FatArrow, token.Comma, token.Semicolon, token.AndAnd, token.OrOr,
	token.Question, token.QuestionQuestion, token.EqEq, token.BangEq, token.Assign,
	token.RParen, token.RBracket, token.RBrace,
}

// parsePattern: шаблоны (is, case, switch-arm) хранятся как плоский узел
// с вложенными скобочными группами; правилам раскладки их структура не нужна.
func (p *Parser) parsePattern() syntax.NodeID {
	var e elems
	for !p.atEOF() && !p.atWord("when") {
		k := p.peek().Kind
		if isPatternStop(k) {
			break
		}
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			p.skipGroup(&e)
		default:
			e.tok(p.advance())
		}
	}
	if len(e) == 0 {
		p.err(diag.SynExpectExpression, "expected pattern")
		return syntax.NoNodeID
	}
	return p.make(syntax.Pattern, e)
}

func isPatternStop(k token.Kind) bool {
	for _, s := range patternStops {
		if k == s {
			return true
		}
	}
	return false
}

// skipGroup съедает скобочную группу целиком, включая закрывающую скобку.
func (p *Parser) skipGroup(e *elems) {
	open := p.peek().Kind
	closeKind := map[token.Kind]token.Kind{
		token.LParen:   token.RParen,
		token.LBracket: token.RBracket,
		token.LBrace:   token.RBrace,
	}[open]
	e.tok(p.advance())
	p.skipBalanced(e, closeKind)
	p.expect(closeKind, e, diag.SynUnclosedDelimiter, "expected '"+closeKind.String()+"'")
}
