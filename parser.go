package quicksilver

// parser is a recursive-descent parser with precedence climbing over the
// token slice produced by the lexer. All failures are SyntaxError values
// carrying the offending position and source line.
type parser struct {
	source  string
	tokens  []token
	current int
}

// parse tokenizes and parses a complete source string.
func parse(source string) (*program, *Error) {
	toks, err := newLexer(source).scan()
	if err != nil {
		return nil, err
	}
	p := &parser{source: source, tokens: toks}
	prog := &program{}
	for !p.check(tokEOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.stmts = append(prog.stmts, s)
	}
	return prog, nil
}

func (p *parser) peek() token {
	return p.tokens[p.current]
}

func (p *parser) previous() token {
	return p.tokens[p.current-1]
}

func (p *parser) check(t tokenType) bool {
	return p.peek().typ == t
}

func (p *parser) advance() token {
	t := p.tokens[p.current]
	if t.typ != tokEOF {
		p.current++
	}
	return t
}

func (p *parser) match(types ...tokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(t tokenType, what string) (token, *Error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token{}, p.errorf(p.peek().pos, "expected %s %s, found %s", t, what, p.peek().typ)
}

func (p *parser) errorf(pos Position, format string, args ...interface{}) *Error {
	return newError(ErrSyntax, pos, p.source, format, args...)
}

// --- Statements ---

func (p *parser) statement() (stmt, *Error) {
	switch {
	case p.check(tokLBrace):
		return p.block()
	case p.check(tokIf):
		return p.ifStatement()
	case p.check(tokWhile):
		return p.whileStatement()
	case p.check(tokLet), p.check(tokConst), p.check(tokVar):
		return p.declaration()
	}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	p.match(tokSemi)
	return &exprStmt{e: e}, nil
}

func (p *parser) block() (stmt, *Error) {
	open := p.advance()
	b := &blockStmt{at: open.pos}
	for !p.check(tokRBrace) && !p.check(tokEOF) {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}
		b.stmts = append(b.stmts, s)
	}
	if _, err := p.expect(tokRBrace, "to close block"); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *parser) ifStatement() (stmt, *Error) {
	kw := p.advance()
	if _, err := p.expect(tokLParen, "after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "after condition"); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	s := &ifStmt{cond: cond, then: then, at: kw.pos}
	if p.match(tokElse) {
		alt, err := p.statement()
		if err != nil {
			return nil, err
		}
		s.alt = alt
	}
	return s, nil
}

func (p *parser) whileStatement() (stmt, *Error) {
	kw := p.advance()
	if _, err := p.expect(tokLParen, "after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen, "after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &whileStmt{cond: cond, body: body, at: kw.pos}, nil
}

func (p *parser) declaration() (stmt, *Error) {
	kw := p.advance()
	name, err := p.expect(tokIdent, "after declaration keyword")
	if err != nil {
		return nil, err
	}
	d := &declStmt{kind: kw.typ, name: name.lexeme, at: kw.pos}
	if p.match(tokAssign) {
		init, err := p.expression()
		if err != nil {
			return nil, err
		}
		d.init = init
	} else if kw.typ == tokConst {
		return nil, p.errorf(kw.pos, "missing initializer in const declaration")
	}
	p.match(tokSemi)
	return d, nil
}

// --- Expressions, highest-level first ---

func (p *parser) expression() (expr, *Error) {
	return p.assignment()
}

func (p *parser) assignment() (expr, *Error) {
	lhs, err := p.conditional()
	if err != nil {
		return nil, err
	}
	if p.check(tokAssign) {
		eq := p.advance()
		target, ok := lhs.(*identExpr)
		if !ok {
			return nil, p.errorf(eq.pos, "invalid assignment target")
		}
		val, err := p.assignment()
		if err != nil {
			return nil, err
		}
		return &assignExpr{name: target.name, val: val, at: target.at}, nil
	}
	return lhs, nil
}

func (p *parser) conditional() (expr, *Error) {
	cond, err := p.logicalOr()
	if err != nil {
		return nil, err
	}
	if !p.check(tokQuestion) {
		return cond, nil
	}
	q := p.advance()
	then, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColon, "in conditional expression"); err != nil {
		return nil, err
	}
	alt, err := p.assignment()
	if err != nil {
		return nil, err
	}
	return &condExpr{cond: cond, then: then, alt: alt, at: q.pos}, nil
}

func (p *parser) logicalOr() (expr, *Error) {
	lhs, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(tokOr) {
		op := p.advance()
		rhs, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}
		lhs = &logicalExpr{op: op.typ, lhs: lhs, rhs: rhs, at: op.pos}
	}
	return lhs, nil
}

func (p *parser) logicalAnd() (expr, *Error) {
	lhs, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(tokAnd) {
		op := p.advance()
		rhs, err := p.equality()
		if err != nil {
			return nil, err
		}
		lhs = &logicalExpr{op: op.typ, lhs: lhs, rhs: rhs, at: op.pos}
	}
	return lhs, nil
}

func (p *parser) equality() (expr, *Error) {
	lhs, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.check(tokEq) || p.check(tokNeq) || p.check(tokStrictEq) || p.check(tokStrictNeq) {
		op := p.advance()
		rhs, err := p.comparison()
		if err != nil {
			return nil, err
		}
		lhs = &binaryExpr{op: op.typ, lhs: lhs, rhs: rhs, at: op.pos}
	}
	return lhs, nil
}

func (p *parser) comparison() (expr, *Error) {
	lhs, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.check(tokLess) || p.check(tokLessEq) || p.check(tokGreater) || p.check(tokGreaterEq) {
		op := p.advance()
		rhs, err := p.additive()
		if err != nil {
			return nil, err
		}
		lhs = &binaryExpr{op: op.typ, lhs: lhs, rhs: rhs, at: op.pos}
	}
	return lhs, nil
}

func (p *parser) additive() (expr, *Error) {
	lhs, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.check(tokPlus) || p.check(tokMinus) {
		op := p.advance()
		rhs, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		lhs = &binaryExpr{op: op.typ, lhs: lhs, rhs: rhs, at: op.pos}
	}
	return lhs, nil
}

func (p *parser) multiplicative() (expr, *Error) {
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.check(tokStar) || p.check(tokSlash) || p.check(tokPercent) {
		op := p.advance()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		lhs = &binaryExpr{op: op.typ, lhs: lhs, rhs: rhs, at: op.pos}
	}
	return lhs, nil
}

func (p *parser) unary() (expr, *Error) {
	switch p.peek().typ {
	case tokMinus, tokPlus, tokNot:
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: op.typ, operand: operand, at: op.pos}, nil
	case tokTypeof:
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &typeofExpr{operand: operand, at: op.pos}, nil
	}
	return p.postfix()
}

// postfix parses member access and call chains: Math.sqrt(144),
// 'hi'.toUpperCase().
func (p *parser) postfix() (expr, *Error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(tokDot):
			dot := p.advance()
			name := p.peek()
			if name.typ != tokIdent {
				if _, kw := keywords[name.lexeme]; !kw || name.lexeme == "" {
					return nil, p.errorf(dot.pos, "expected property name after '.'")
				}
			}
			p.advance()
			e = &memberExpr{obj: e, name: name.lexeme, at: dot.pos}
		case p.check(tokLParen):
			open := p.advance()
			call := &callExpr{callee: e, at: open.pos}
			for !p.check(tokRParen) {
				arg, err := p.expression()
				if err != nil {
					return nil, err
				}
				call.args = append(call.args, arg)
				if !p.match(tokComma) {
					break
				}
			}
			if _, err := p.expect(tokRParen, "after arguments"); err != nil {
				return nil, err
			}
			e = call
		default:
			return e, nil
		}
	}
}

func (p *parser) primary() (expr, *Error) {
	t := p.advance()
	switch t.typ {
	case tokNumber:
		return &numberLit{val: t.num, at: t.pos}, nil
	case tokString:
		return &stringLit{val: t.str, at: t.pos}, nil
	case tokTemplate:
		return p.template(t)
	case tokTrue:
		return &boolLit{val: true, at: t.pos}, nil
	case tokFalse:
		return &boolLit{val: false, at: t.pos}, nil
	case tokNull:
		return &nullLit{at: t.pos}, nil
	case tokUndefined:
		return &undefinedLit{at: t.pos}, nil
	case tokIdent:
		return &identExpr{name: t.lexeme, at: t.pos}, nil
	case tokLParen:
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "after expression"); err != nil {
			return nil, err
		}
		return e, nil
	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of input")
	}
	return nil, p.errorf(t.pos, "unexpected %s", t.typ)
}

// template turns lexer segments into a templateLit, parsing each ${...}
// substitution as a nested expression.
func (p *parser) template(t token) (expr, *Error) {
	lit := &templateLit{at: t.pos}
	for _, part := range t.parts {
		if !part.isExpr {
			lit.chunks = append(lit.chunks, templateChunk{text: part.text})
			continue
		}
		sub, err := parseExpressionSource(part.text)
		if err != nil {
			return nil, p.errorf(part.pos, "in template substitution: %s", err.Message)
		}
		lit.chunks = append(lit.chunks, templateChunk{e: sub})
	}
	return lit, nil
}

// parseExpressionSource parses a standalone expression, used for template
// substitutions.
func parseExpressionSource(source string) (expr, *Error) {
	toks, err := newLexer(source).scan()
	if err != nil {
		return nil, err
	}
	p := &parser{source: source, tokens: toks}
	e, perr := p.expression()
	if perr != nil {
		return nil, perr
	}
	if !p.check(tokEOF) {
		return nil, p.errorf(p.peek().pos, "unexpected %s", p.peek().typ)
	}
	return e, nil
}
