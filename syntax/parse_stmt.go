package syntax

import (
	"regionc/ast"
	"regionc/report"
)

// stmt := if_stmt | simple_stmts ;
func (p *Parser) parseStmt() []ast.ASTNode {
	if p.has(TOK_IF) {
		return []ast.ASTNode{p.parseIfStmt()}
	}

	return p.parseSimpleStmts()
}

// if_stmt := ('if' | 'elif') named_expr ':' suite [if_tail] ;
// if_tail := elif_stmt | 'else' ':' suite ;
//
// An `elif` is parsed as a conditional marked as chained which makes up the
// entire else branch of the conditional before it.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	chained := p.has(TOK_ELIF)
	startSpan := p.tok.Span
	p.next()

	cond := p.parseNamedExpr()
	p.want(TOK_COLON)
	body := p.parseSuite()

	ifs := &ast.IfStmt{
		Cond:    cond,
		Body:    body,
		Chained: chained,
	}
	endSpan := body.Span()

	switch p.tok.Kind {
	case TOK_ELIF:
		inner := p.parseIfStmt()
		ifs.ElseBranch = &ast.Block{
			ASTBase: ast.NewASTBaseOn(inner.Span()),
			Stmts:   []ast.ASTNode{inner},
		}
		endSpan = inner.Span()
	case TOK_ELSE:
		p.next()
		p.want(TOK_COLON)
		ifs.ElseBranch = p.parseSuite()
		endSpan = report.NewSpanOver(p.lookbehind.Span, ifs.ElseBranch.Span())
	}

	if endSpan == nil {
		endSpan = p.lookbehind.Span
	}

	ifs.ASTBase = ast.NewASTBaseOver(startSpan, endSpan)
	return ifs
}

// simple_stmts := simple_stmt {';' simple_stmt} [';'] NEWLINE ;
func (p *Parser) parseSimpleStmts() []ast.ASTNode {
	stmts := []ast.ASTNode{p.parseSimpleStmt()}

	for p.has(TOK_SEMI) {
		p.next()

		if p.has(TOK_NEWLINE) {
			break
		}

		stmts = append(stmts, p.parseSimpleStmt())
	}

	p.want(TOK_NEWLINE)
	return stmts
}

// simple_stmt := 'pass' | return_stmt | result_stmt | assign_stmt | expr_stmt ;
// return_stmt := 'return' [expr_list] ;
// result_stmt := [ident_list '='] 'yield' [expr_list] ;
// assign_stmt := ident_list '=' expr_list ;
// expr_stmt := stmt_expr_list ;
func (p *Parser) parseSimpleStmt() ast.ASTNode {
	switch p.tok.Kind {
	case TOK_PASS:
		p.next()
		return &ast.PassStmt{ASTBase: ast.NewASTBaseOn(p.lookbehind.Span)}
	case TOK_RETURN:
		p.next()
		startSpan := p.lookbehind.Span

		var exprs []ast.ASTExpr
		if !p.atStmtEnd() {
			exprs = p.parseExprList()
		}

		return &ast.ReturnStmt{
			ASTBase: ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
			Exprs:   exprs,
		}
	case TOK_YIELD:
		return p.parseResultStmt(p.tok.Span, nil)
	}

	exprs := p.parseStmtExprList()
	if !p.has(TOK_ASSIGN) {
		if len(exprs) == 1 {
			return exprs[0]
		}

		return ast.NewTuple(report.NewSpanOver(exprs[0].Span(), exprs[len(exprs)-1].Span()), exprs...)
	}

	targets := make([]*ast.Identifier, len(exprs))
	for i, expr := range exprs {
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			p.error(expr.Span(), "cannot assign to expression")
		}

		targets[i] = ident
	}

	p.next()

	if p.has(TOK_YIELD) {
		return p.parseResultStmt(targets[0].Span(), targets)
	}

	values := p.parseExprList()
	if len(values) > 1 && len(targets) > 1 && len(values) != len(targets) {
		p.error(
			report.NewSpanOver(targets[0].Span(), p.lookbehind.Span),
			"cannot assign %d values to %d names",
			len(values),
			len(targets),
		)
	}

	return &ast.Assignment{
		ASTBase: ast.NewASTBaseOver(targets[0].Span(), p.lookbehind.Span),
		Targets: targets,
		Values:  values,
	}
}

// parseResultStmt parses the `'yield' [expr_list]` tail of a result statement
// binding its results to the given targets.
func (p *Parser) parseResultStmt(startSpan *report.TextSpan, targets []*ast.Identifier) *ast.ResultStmt {
	p.want(TOK_YIELD)

	var operands []ast.ASTExpr
	if !p.atStmtEnd() {
		operands = p.parseExprList()
	}

	return &ast.ResultStmt{
		ASTBase:  ast.NewASTBaseOver(startSpan, p.lookbehind.Span),
		Targets:  targets,
		Operands: operands,
	}
}

// atStmtEnd returns whether the parser is positioned at the end of a simple
// statement.
func (p *Parser) atStmtEnd() bool {
	return p.hasOneOf(TOK_NEWLINE, TOK_SEMI, TOK_EOF)
}
