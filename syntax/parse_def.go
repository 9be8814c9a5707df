package syntax

import (
	"regionc/ast"
	"regionc/report"
)

// file := {NEWLINE | func_def | global_assign} EOF ;
func (p *Parser) parseFile() *ast.File {
	f := &ast.File{}

	for !p.has(TOK_EOF) {
		switch p.tok.Kind {
		case TOK_NEWLINE:
			p.next()
		case TOK_DEF:
			fd := p.parseFuncDef()
			if _, ok := f.Def(fd.Name); ok {
				p.error(fd.Span(), "multiple definitions of `%s`", fd.Name)
			}

			f.Defs = append(f.Defs, fd)
		case TOK_IDENT:
			stmt := p.parseSimpleStmt()

			assign, ok := stmt.(*ast.Assignment)
			if !ok {
				p.error(stmt.Span(), "only assignments and definitions may occur at the top level")
			}

			p.want(TOK_NEWLINE)
			f.Globals = append(f.Globals, assign)
		default:
			p.reject()
		}
	}

	return f
}

// func_def := 'def' IDENT '(' [param {',' param}] ')' ':' suite ;
func (p *Parser) parseFuncDef() *ast.FuncDef {
	startSpan := p.want(TOK_DEF).Span
	name := p.want(TOK_IDENT)

	p.want(TOK_LPAREN)

	var params []*ast.Param
	for !p.has(TOK_RPAREN) {
		param := p.parseParam()

		for _, prev := range params {
			if prev.Name == param.Name {
				p.error(param.Span(), "duplicate parameter `%s`", param.Name)
			}
		}

		params = append(params, param)

		if p.has(TOK_COMMA) {
			p.next()
		} else {
			break
		}
	}

	p.want(TOK_RPAREN)
	p.want(TOK_COLON)

	body := p.parseSuite()

	return &ast.FuncDef{
		ASTBase: ast.NewASTBaseOver(startSpan, body.Span()),
		Name:    name.Value,
		Params:  params,
		Body:    body,
	}
}

// param := IDENT [':' IDENT] ['=' or_expr] ;
func (p *Parser) parseParam() *ast.Param {
	name := p.want(TOK_IDENT)
	param := &ast.Param{Name: name.Value}
	endSpan := name.Span

	if p.has(TOK_COLON) {
		p.next()
		label := p.want(TOK_IDENT)
		param.TypeLabel = label.Value
		endSpan = label.Span
	}

	if p.has(TOK_ASSIGN) {
		p.next()
		param.Default = p.parseOrExpr()
		endSpan = param.Default.Span()
	}

	param.ASTBase = ast.NewASTBaseOver(name.Span, endSpan)
	return param
}

// suite := simple_stmts | NEWLINE INDENT stmt {stmt} DEDENT ;
func (p *Parser) parseSuite() *ast.Block {
	if !p.has(TOK_NEWLINE) {
		stmts := p.parseSimpleStmts()
		return newBlock(stmts)
	}

	p.next()
	p.want(TOK_INDENT)

	var stmts []ast.ASTNode
	for !p.has(TOK_DEDENT) {
		stmts = append(stmts, p.parseStmt()...)
	}

	p.next()
	return newBlock(stmts)
}

// newBlock creates a block spanning over its statements.  Blocks containing
// only `pass` are empty.
func newBlock(stmts []ast.ASTNode) *ast.Block {
	var kept []ast.ASTNode
	for _, stmt := range stmts {
		if _, ok := stmt.(*ast.PassStmt); !ok {
			kept = append(kept, stmt)
		}
	}

	var span *report.TextSpan
	if len(stmts) > 0 {
		span = report.NewSpanOver(stmts[0].Span(), stmts[len(stmts)-1].Span())
	}

	return &ast.Block{ASTBase: ast.NewASTBaseOn(span), Stmts: kept}
}
