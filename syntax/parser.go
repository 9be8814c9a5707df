package syntax

import (
	"bufio"
	"io"
	"strings"

	"regionc/ast"
	"regionc/report"
)

// NOTE: All parsing functions (that are not utility/API functions) are
// commented with the EBNF notation of the grammar they parse as well as any
// semantic actions they perform during parsing.

// Parser is a recursive descent parser for source files.  All parsing functions
// assume that they begin with the parser centered on the first token of their
// production and must consume all tokens (including the last) of their
// production, leaving the parser on the next token.  Syntax errors are raised
// by panicking with a local compile error: they are caught at the API boundary.
type Parser struct {
	// The lexer this parser is using to lex the source file.
	lexer *Lexer

	// The current token the parser is positioned on.
	tok *Token

	// The token the parser was positioned on before the current token.
	lookbehind *Token
}

// NewParser creates a new parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(bufio.NewReader(r))}
}

// Parse parses a whole source file.  The path is only recorded on the
// resulting file.
func Parse(path string, r io.Reader) (f *ast.File, err error) {
	defer func() { report.Recover(recover(), &err) }()

	p := NewParser(r)
	p.next()

	f = p.parseFile()
	f.Path = path
	return f, nil
}

// ParseFunc parses source text containing exactly one function definition.
func ParseFunc(src string) (fd *ast.FuncDef, err error) {
	defer func() { report.Recover(recover(), &err) }()

	p := NewParser(strings.NewReader(src))
	p.next()

	for p.has(TOK_NEWLINE) {
		p.next()
	}

	fd = p.parseFuncDef()

	for p.has(TOK_NEWLINE) {
		p.next()
	}

	if !p.has(TOK_EOF) {
		p.reject()
	}

	return fd, nil
}

// -----------------------------------------------------------------------------

// next moves the parser forward one token.
func (p *Parser) next() {
	tok, err := p.lexer.NextToken()
	if err != nil {
		panic(err)
	}

	p.lookbehind = p.tok
	p.tok = tok
}

// has returns whether the parser is on a token of the given kind.
func (p *Parser) has(kind int) bool {
	return p.tok.Kind == kind
}

// hasOneOf returns whether the parser is on a token of one of the given kinds.
func (p *Parser) hasOneOf(kinds ...int) bool {
	for _, kind := range kinds {
		if p.tok.Kind == kind {
			return true
		}
	}

	return false
}

// want asserts that the parser is on a token of the given kind, moves the
// parser forward, and returns the matched token.  The current token is rejected
// if it doesn't match.
func (p *Parser) want(kind int) *Token {
	if !p.has(kind) {
		p.reject()
	}

	tok := p.tok
	p.next()
	return tok
}

// reject raises an unexpected token error on the current token.
func (p *Parser) reject() {
	switch p.tok.Kind {
	case TOK_NEWLINE:
		panic(report.Raise(p.tok.Span, "unexpected newline"))
	case TOK_EOF:
		panic(report.Raise(p.tok.Span, "unexpected end of file"))
	case TOK_INDENT:
		panic(report.Raise(p.tok.Span, "unexpected indent"))
	case TOK_DEDENT:
		panic(report.Raise(p.tok.Span, "unexpected dedent"))
	}

	panic(report.Raise(p.tok.Span, "unexpected token: `%s`", p.tok.Value))
}

// error raises an error on the given span.
func (p *Parser) error(span *report.TextSpan, msg string, args ...interface{}) {
	panic(report.Raise(span, msg, args...))
}
