package syntax

import "regionc/report"

// Token represents a single lexical token.
type Token struct {
	// The kind of the token.  This must be one of the enumerated token kinds.
	Kind int

	// The string value of the token.
	Value string

	// The text span over which the token exists.  This may not directly
	// correspond to its value: eg. the value of a string token has the leading
	// quotes trimmed off for convenience.
	Span *report.TextSpan
}

// Enumeration of token kinds.
const (
	TOK_DEF = iota

	TOK_IF
	TOK_ELIF
	TOK_ELSE
	TOK_YIELD
	TOK_RETURN
	TOK_PASS

	TOK_AND
	TOK_OR
	TOK_NOT
	TOK_NONE

	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_DIV
	TOK_MOD

	TOK_EQ
	TOK_NEQ
	TOK_LT
	TOK_GT
	TOK_LTEQ
	TOK_GTEQ

	TOK_ASSIGN
	TOK_WALRUS

	TOK_LPAREN
	TOK_RPAREN
	TOK_COMMA
	TOK_SEMI
	TOK_COLON

	TOK_IDENT
	TOK_INTLIT
	TOK_FLOATLIT
	TOK_BOOLLIT
	TOK_STRINGLIT

	TOK_NEWLINE
	TOK_INDENT
	TOK_DEDENT
	TOK_EOF
)

// tokNames gives a readable name for the tokens which have no fixed spelling.
var tokNames = map[int]string{
	TOK_IDENT:     "identifier",
	TOK_INTLIT:    "integer literal",
	TOK_FLOATLIT:  "float literal",
	TOK_BOOLLIT:   "bool literal",
	TOK_STRINGLIT: "string literal",
	TOK_NEWLINE:   "newline",
	TOK_INDENT:    "indent",
	TOK_DEDENT:    "dedent",
	TOK_EOF:       "end of file",
}
