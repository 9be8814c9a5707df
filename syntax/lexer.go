package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"regionc/report"
)

// tabWidth is the number of columns a tab counts for.
const tabWidth = 4

// Lexer is responsible for tokenizing a source file.  Block structure is
// conveyed by indentation: the lexer tracks the indentation of each logical
// line and emits INDENT and DEDENT tokens when it changes.
type Lexer struct {
	file    *bufio.Reader
	tokBuff *strings.Builder

	line, col           int
	startLine, startCol int

	// The stack of active indentation levels.  It always contains at least the
	// zero indentation level of the top of the file.
	indents []int

	// The queue of already lexed tokens waiting to be returned.
	pending []*Token

	// The depth of parentheses nesting: newlines and indentation are ignored
	// inside parentheses.
	parenDepth int

	// Whether the lexer is positioned at the start of a logical line.
	atLineStart bool

	// The kind of the last token returned or -1 if no tokens have been
	// returned yet.
	lastKind int
}

// NewLexer creates a new lexer for the given source file.
func NewLexer(file *bufio.Reader) *Lexer {
	return &Lexer{
		file:        file,
		tokBuff:     &strings.Builder{},
		indents:     []int{0},
		atLineStart: true,
		lastKind:    -1,
	}
}

// NextToken retrieves the next token from the input file. If the file has
// ended, this will be an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	tok, err := l.nextToken()
	if err != nil {
		return nil, err
	}

	l.lastKind = tok.Kind
	return tok, nil
}

func (l *Lexer) nextToken() (*Token, error) {
	for {
		if len(l.pending) > 0 {
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, nil
		}

		if l.atLineStart && l.parenDepth == 0 {
			if err := l.lexIndentation(); err != nil {
				return nil, err
			}

			continue
		}

		c, err := l.peek()
		if err != nil {
			return nil, err
		} else if c == -1 {
			return l.lexEOF(), nil
		}

		switch c {
		case '\t', ' ', '\r', '\v', '\f':
			l.skip()
		case '#':
			if err := l.skipComment(); err != nil {
				return nil, err
			}
		case '\n':
			l.mark()
			l.skip()

			if l.parenDepth > 0 {
				continue
			}

			l.atLineStart = true

			if l.lastKind == -1 || l.lastKind == TOK_NEWLINE {
				continue
			}

			return l.makeToken(TOK_NEWLINE), nil
		case '"', '\'':
			return l.lexStringLit(c)
		default:
			if isDecimalDigit(c) {
				return l.lexNumericLit()
			} else if isFirstIdentChar(c) {
				return l.lexIdentOrKeyword()
			} else {
				return l.lexPunctOrOper()
			}
		}
	}
}

// -----------------------------------------------------------------------------

// lexIndentation measures the indentation of the line the lexer is positioned
// at the start of and queues any INDENT or DEDENT tokens it implies.  Blank
// lines and comment-only lines do not affect indentation.
func (l *Lexer) lexIndentation() error {
	l.mark()

	indent := 0
	for {
		c, err := l.peek()
		if err != nil {
			return err
		}

		switch c {
		case ' ':
			indent++
		case '\t':
			indent += tabWidth
		case '\r', '\v', '\f':
		case '\n':
			// blank line
			l.skip()
			return nil
		case '#':
			return l.skipComment()
		case -1:
			l.atLineStart = false
			return nil
		default:
			l.atLineStart = false
			return l.applyIndent(indent)
		}

		l.skip()
	}
}

// applyIndent compares a line's indentation against the indentation stack.
func (l *Lexer) applyIndent(indent int) error {
	top := l.indents[len(l.indents)-1]

	if indent > top {
		l.indents = append(l.indents, indent)
		l.pending = append(l.pending, l.makeToken(TOK_INDENT))
		return nil
	}

	for indent < l.indents[len(l.indents)-1] {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, &Token{Kind: TOK_DEDENT, Span: l.getSpan()})
	}

	if indent != l.indents[len(l.indents)-1] {
		return report.Raise(l.getSpan(), "unindent does not match any outer indentation level")
	}

	return nil
}

// lexEOF produces the tokens which close off the file: a final NEWLINE if the
// last line was not terminated, a DEDENT for every open indentation level, and
// the EOF token itself.
func (l *Lexer) lexEOF() *Token {
	l.mark()

	if l.lastKind != -1 && l.lastKind != TOK_NEWLINE && l.lastKind != TOK_DEDENT {
		l.pending = append(l.pending, l.makeToken(TOK_NEWLINE))
	}

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, &Token{Kind: TOK_DEDENT, Span: l.getSpan()})
	}

	l.pending = append(l.pending, l.makeToken(TOK_EOF))

	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok
}

// skipComment skips a comment up to but not including the end of the line.
func (l *Lexer) skipComment() error {
	for {
		c, err := l.peek()
		if err != nil {
			return err
		} else if c == '\n' || c == -1 {
			return nil
		}

		l.skip()
	}
}

// -----------------------------------------------------------------------------

// symbolPatterns maps symbol strings (patterns) to their punctuation/operator
// token kind.
var symbolPatterns = map[string]int{
	"+": TOK_PLUS,
	"-": TOK_MINUS,
	"*": TOK_STAR,
	"/": TOK_DIV,
	"%": TOK_MOD,

	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,

	"=":  TOK_ASSIGN,
	":=": TOK_WALRUS,

	"(": TOK_LPAREN,
	")": TOK_RPAREN,
	",": TOK_COMMA,
	";": TOK_SEMI,
	":": TOK_COLON,
}

// lexPunctOrOper lexes a punctuation or operator symbol.  The longest matching
// pattern wins.
func (l *Lexer) lexPunctOrOper() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if c == -1 {
			break
		}

		if _, ok := symbolPatterns[l.tokBuff.String()+string(c)]; ok {
			l.eat()
		} else {
			break
		}
	}

	kind, ok := symbolPatterns[l.tokBuff.String()]
	if !ok {
		return nil, report.Raise(l.getSpan(), "unknown rune: `%s`", l.tokBuff.String())
	}

	switch kind {
	case TOK_LPAREN:
		l.parenDepth++
	case TOK_RPAREN:
		if l.parenDepth > 0 {
			l.parenDepth--
		}
	}

	return l.makeToken(kind), nil
}

// -----------------------------------------------------------------------------

// keywordPatterns maps keyword strings (patterns) to their keyword token kind.
var keywordPatterns = map[string]int{
	"def":    TOK_DEF,
	"if":     TOK_IF,
	"elif":   TOK_ELIF,
	"else":   TOK_ELSE,
	"yield":  TOK_YIELD,
	"return": TOK_RETURN,
	"pass":   TOK_PASS,
	"and":    TOK_AND,
	"or":     TOK_OR,
	"not":    TOK_NOT,
	"None":   TOK_NONE,
	"True":   TOK_BOOLLIT,
	"False":  TOK_BOOLLIT,
}

// lexIdentOrKeyword lexes an identifier or a keyword.
func (l *Lexer) lexIdentOrKeyword() (*Token, error) {
	l.mark()
	l.eat()

	for {
		c, err := l.peek()
		if err != nil {
			return nil, err
		}

		if isFirstIdentChar(c) || isDecimalDigit(c) {
			l.eat()
		} else {
			break
		}
	}

	if kind, ok := keywordPatterns[l.tokBuff.String()]; ok {
		return l.makeToken(kind), nil
	}

	return l.makeToken(TOK_IDENT), nil
}

// lexNumericLit lexes an integer or floating-point literal.
func (l *Lexer) lexNumericLit() (*Token, error) {
	l.mark()

	kind := TOK_INTLIT
	if err := l.eatDigits(); err != nil {
		return nil, err
	}

	c, err := l.peek()
	if err != nil {
		return nil, err
	}

	if c == '.' {
		kind = TOK_FLOATLIT
		l.eat()

		if err := l.eatDigits(); err != nil {
			return nil, err
		}

		if c, err = l.peek(); err != nil {
			return nil, err
		}
	}

	if c == 'e' || c == 'E' {
		kind = TOK_FLOATLIT
		l.eat()

		if c, err = l.peek(); err != nil {
			return nil, err
		} else if c == '+' || c == '-' {
			l.eat()
		}

		if c, err = l.peek(); err != nil {
			return nil, err
		} else if !isDecimalDigit(c) {
			return nil, report.Raise(l.getSpan(), "expected exponent after `e`")
		}

		if err := l.eatDigits(); err != nil {
			return nil, err
		}
	}

	return l.makeToken(kind), nil
}

// eatDigits consumes a run of decimal digits.
func (l *Lexer) eatDigits() error {
	for {
		c, err := l.peek()
		if err != nil {
			return err
		} else if !isDecimalDigit(c) {
			return nil
		}

		l.eat()
	}
}

// lexStringLit lexes a string literal delimited by the given quote.  The
// token's value is the decoded contents of the string.
func (l *Lexer) lexStringLit(quote rune) (*Token, error) {
	l.mark()
	l.skip()

	for {
		c, err := l.skip()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1, '\n':
			return nil, report.Raise(l.getSpan(), "unclosed string literal")
		case quote:
			return l.makeToken(TOK_STRINGLIT), nil
		case '\\':
			esc, err := l.skip()
			if err != nil {
				return nil, err
			}

			switch esc {
			case 'n':
				l.tokBuff.WriteRune('\n')
			case 't':
				l.tokBuff.WriteRune('\t')
			case '\\', '"', '\'':
				l.tokBuff.WriteRune(esc)
			default:
				return nil, report.Raise(l.getSpan(), "unknown escape sequence: `\\%c`", esc)
			}
		default:
			l.tokBuff.WriteRune(c)
		}
	}
}

// -----------------------------------------------------------------------------

// mark sets the lexer's stored start line and column to its current position.
func (l *Lexer) mark() {
	l.startLine = l.line
	l.startCol = l.col
}

// makeToken produces a new token of the given kind from the lexer's state and
// resets the lexer to begin building the next token.
func (l *Lexer) makeToken(kind int) *Token {
	value := l.tokBuff.String()
	l.tokBuff.Reset()

	return &Token{
		Kind:  kind,
		Value: value,
		Span:  l.getSpan(),
	}
}

// getSpan calculates a text span based on the lexer's current state.
func (l *Lexer) getSpan() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// eat moves the lexer forward one rune and writes the rune to the token buffer.
// If the lexer encounters an EOF, -1 is returned as the rune value.
func (l *Lexer) eat() (rune, error) {
	c, err := l.skip()
	if err != nil || c == -1 {
		return c, err
	}

	l.tokBuff.WriteRune(c)
	return c, nil
}

// skip moves the lexer forward one rune but does not write the rune to the
// token buffer.  If the lexer encounters an EOF, -1 is returned as the rune
// value.
func (l *Lexer) skip() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	l.updatePos(c)

	return c, nil
}

// peek returns the next rune in the file without moving the lexer forward or
// writing the rune to the token buffer.  If the lexer encounters an EOF, -1 is
// returned as rune value.
func (l *Lexer) peek() (rune, error) {
	c, _, err := l.file.ReadRune()
	if err != nil {
		if err == io.EOF {
			return -1, nil
		}

		return 0, err
	}

	if err = l.file.UnreadRune(); err != nil {
		return 0, err
	}

	return c, nil
}

// updatePos updates the lexer's position based on input character.
func (l *Lexer) updatePos(c rune) {
	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += tabWidth
	default:
		l.col++
	}
}

// -----------------------------------------------------------------------------

// isDecimalDigit returns whether c is a decimal digit.
func isDecimalDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isFirstIdentChar returns whether c could be the first rune of an identifier.
func isFirstIdentChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}
