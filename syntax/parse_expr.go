package syntax

import (
	"regionc/ast"
	"regionc/report"
)

// expr_list := or_expr {',' or_expr} ;
func (p *Parser) parseExprList() []ast.ASTExpr {
	exprs := []ast.ASTExpr{p.parseOrExpr()}

	for p.has(TOK_COMMA) {
		p.next()
		exprs = append(exprs, p.parseOrExpr())
	}

	return exprs
}

// stmt_expr_list := named_expr {',' or_expr} ;
func (p *Parser) parseStmtExprList() []ast.ASTExpr {
	exprs := []ast.ASTExpr{p.parseNamedExpr()}

	for p.has(TOK_COMMA) {
		p.next()
		exprs = append(exprs, p.parseOrExpr())
	}

	return exprs
}

// named_expr := [IDENT ':='] or_expr ;
func (p *Parser) parseNamedExpr() ast.ASTExpr {
	expr := p.parseOrExpr()
	if !p.has(TOK_WALRUS) {
		return expr
	}

	target, ok := expr.(*ast.Identifier)
	if !ok {
		p.error(expr.Span(), "cannot bind expression with `:=`")
	}

	p.next()
	value := p.parseOrExpr()

	return &ast.NamedExpr{
		ExprBase: ast.NewExprBase(report.NewSpanOver(target.Span(), value.Span())),
		Target:   target,
		Value:    value,
	}
}

// or_expr := and_expr {'or' and_expr} ;
func (p *Parser) parseOrExpr() ast.ASTExpr {
	lhs := p.parseAndExpr()

	for p.has(TOK_OR) {
		op := p.parseOper(ast.OP_OR)
		rhs := p.parseAndExpr()
		lhs = newBinaryOp(op, lhs, rhs)
	}

	return lhs
}

// and_expr := not_expr {'and' not_expr} ;
func (p *Parser) parseAndExpr() ast.ASTExpr {
	lhs := p.parseNotExpr()

	for p.has(TOK_AND) {
		op := p.parseOper(ast.OP_AND)
		rhs := p.parseNotExpr()
		lhs = newBinaryOp(op, lhs, rhs)
	}

	return lhs
}

// not_expr := 'not' not_expr | comparison ;
func (p *Parser) parseNotExpr() ast.ASTExpr {
	if !p.has(TOK_NOT) {
		return p.parseComparison()
	}

	op := p.parseOper(ast.OP_NOT)
	operand := p.parseNotExpr()

	return &ast.UnaryOp{
		ExprBase: ast.NewExprBase(report.NewSpanOver(op.Span, operand.Span())),
		Op:       op,
		Operand:  operand,
	}
}

// compareOps maps comparison tokens to their operator kinds.
var compareOps = map[int]int{
	TOK_EQ:   ast.OP_EQ,
	TOK_NEQ:  ast.OP_NEQ,
	TOK_LT:   ast.OP_LT,
	TOK_GT:   ast.OP_GT,
	TOK_LTEQ: ast.OP_LTEQ,
	TOK_GTEQ: ast.OP_GTEQ,
}

// comparison := arith_expr [comp_op arith_expr] ;
// comp_op := '==' | '!=' | '<' | '>' | '<=' | '>=' ;
func (p *Parser) parseComparison() ast.ASTExpr {
	lhs := p.parseArithExpr()

	kind, ok := compareOps[p.tok.Kind]
	if !ok {
		return lhs
	}

	op := p.parseOper(kind)
	rhs := p.parseArithExpr()

	if _, ok := compareOps[p.tok.Kind]; ok {
		p.error(p.tok.Span, "comparison operators cannot be chained")
	}

	return newBinaryOp(op, lhs, rhs)
}

// arith_expr := term {('+' | '-') term} ;
func (p *Parser) parseArithExpr() ast.ASTExpr {
	lhs := p.parseTerm()

	for p.hasOneOf(TOK_PLUS, TOK_MINUS) {
		kind := ast.OP_ADD
		if p.has(TOK_MINUS) {
			kind = ast.OP_SUB
		}

		op := p.parseOper(kind)
		rhs := p.parseTerm()
		lhs = newBinaryOp(op, lhs, rhs)
	}

	return lhs
}

// term := unary_expr {('*' | '/' | '%') unary_expr} ;
func (p *Parser) parseTerm() ast.ASTExpr {
	lhs := p.parseUnaryExpr()

	for p.hasOneOf(TOK_STAR, TOK_DIV, TOK_MOD) {
		var kind int
		switch p.tok.Kind {
		case TOK_STAR:
			kind = ast.OP_MUL
		case TOK_DIV:
			kind = ast.OP_DIV
		default:
			kind = ast.OP_MOD
		}

		op := p.parseOper(kind)
		rhs := p.parseUnaryExpr()
		lhs = newBinaryOp(op, lhs, rhs)
	}

	return lhs
}

// unary_expr := '-' unary_expr | postfix_expr ;
func (p *Parser) parseUnaryExpr() ast.ASTExpr {
	if !p.has(TOK_MINUS) {
		return p.parsePostfixExpr()
	}

	op := p.parseOper(ast.OP_NEG)
	operand := p.parseUnaryExpr()

	return &ast.UnaryOp{
		ExprBase: ast.NewExprBase(report.NewSpanOver(op.Span, operand.Span())),
		Op:       op,
		Operand:  operand,
	}
}

// postfix_expr := atom {'(' [named_expr {',' named_expr}] ')'} ;
func (p *Parser) parsePostfixExpr() ast.ASTExpr {
	expr := p.parseAtom()

	for p.has(TOK_LPAREN) {
		p.next()

		var args []ast.ASTExpr
		for !p.has(TOK_RPAREN) {
			args = append(args, p.parseNamedExpr())

			if p.has(TOK_COMMA) {
				p.next()
			} else {
				break
			}
		}

		endSpan := p.want(TOK_RPAREN).Span
		expr = &ast.Call{
			ExprBase: ast.NewExprBase(report.NewSpanOver(expr.Span(), endSpan)),
			Func:     expr,
			Args:     args,
		}
	}

	return expr
}

// atom := IDENT | literal | '(' [named_expr [',' [named_expr {',' named_expr}]]] ')' ;
// literal := INTLIT | FLOATLIT | BOOLLIT | STRINGLIT | 'None' ;
func (p *Parser) parseAtom() ast.ASTExpr {
	switch p.tok.Kind {
	case TOK_IDENT:
		tok := p.want(TOK_IDENT)
		return ast.NewIdent(tok.Span, tok.Value)
	case TOK_INTLIT:
		return p.parseLiteral(ast.LIT_INT)
	case TOK_FLOATLIT:
		return p.parseLiteral(ast.LIT_FLOAT)
	case TOK_BOOLLIT:
		return p.parseLiteral(ast.LIT_BOOL)
	case TOK_STRINGLIT:
		return p.parseLiteral(ast.LIT_STRING)
	case TOK_NONE:
		return p.parseLiteral(ast.LIT_NONE)
	case TOK_LPAREN:
		return p.parseParenExpr()
	}

	p.reject()
	return nil
}

// parseParenExpr parses a parenthesized expression or a tuple.  A single
// element followed by a comma is a 1-tuple.
func (p *Parser) parseParenExpr() ast.ASTExpr {
	startSpan := p.want(TOK_LPAREN).Span

	var exprs []ast.ASTExpr
	trailingComma := false
	for !p.has(TOK_RPAREN) {
		exprs = append(exprs, p.parseNamedExpr())
		trailingComma = false

		if p.has(TOK_COMMA) {
			p.next()
			trailingComma = true
		} else {
			break
		}
	}

	endSpan := p.want(TOK_RPAREN).Span

	if len(exprs) == 1 && !trailingComma {
		return exprs[0]
	}

	return ast.NewTuple(report.NewSpanOver(startSpan, endSpan), exprs...)
}

// parseLiteral parses the current token as a literal of the given kind.
func (p *Parser) parseLiteral(kind int) ast.ASTExpr {
	tok := p.tok
	p.next()

	return &ast.Literal{
		ExprBase: ast.NewExprBase(tok.Span),
		Kind:     kind,
		Value:    tok.Value,
	}
}

// -----------------------------------------------------------------------------

// parseOper consumes the current token as an operator of the given kind.
func (p *Parser) parseOper(kind int) ast.Oper {
	tok := p.tok
	p.next()

	return ast.Oper{Kind: kind, Name: tok.Value, Span: tok.Span}
}

// newBinaryOp creates a binary operator node spanning over its operands.
func newBinaryOp(op ast.Oper, lhs, rhs ast.ASTExpr) *ast.BinaryOp {
	return &ast.BinaryOp{
		ExprBase: ast.NewExprBase(report.NewSpanOver(lhs.Span(), rhs.Span())),
		Op:       op,
		Lhs:      lhs,
		Rhs:      rhs,
	}
}
