package syntax

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionc/ast"
	"regionc/report"
)

func lexAll(t *testing.T, src string) []int {
	t.Helper()

	l := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var kinds []int
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)

		kinds = append(kinds, tok.Kind)
		if tok.Kind == TOK_EOF {
			return kinds
		}
	}
}

func TestLexerIndentation(t *testing.T) {
	src := "def f():\n    if c:\n        yield 1\n\n    # comment\n    return\n"

	assert.Equal(t, []int{
		TOK_DEF, TOK_IDENT, TOK_LPAREN, TOK_RPAREN, TOK_COLON, TOK_NEWLINE,
		TOK_INDENT, TOK_IF, TOK_IDENT, TOK_COLON, TOK_NEWLINE,
		TOK_INDENT, TOK_YIELD, TOK_INTLIT, TOK_NEWLINE,
		TOK_DEDENT, TOK_RETURN, TOK_NEWLINE,
		TOK_DEDENT, TOK_EOF,
	}, lexAll(t, src))
}

func TestLexerUnterminatedLastLine(t *testing.T) {
	assert.Equal(t, []int{
		TOK_IDENT, TOK_ASSIGN, TOK_FLOATLIT, TOK_NEWLINE, TOK_EOF,
	}, lexAll(t, "x = 1.5e3"))
}

func TestLexerSymbols(t *testing.T) {
	assert.Equal(t, []int{
		TOK_IDENT, TOK_WALRUS, TOK_IDENT, TOK_NEQ, TOK_INTLIT, TOK_LTEQ,
		TOK_BOOLLIT, TOK_NEWLINE, TOK_EOF,
	}, lexAll(t, "a := b != 1 <= True"))
}

func TestLexerParensIgnoreNewlines(t *testing.T) {
	assert.Equal(t, []int{
		TOK_IDENT, TOK_LPAREN, TOK_INTLIT, TOK_COMMA, TOK_INTLIT, TOK_RPAREN,
		TOK_NEWLINE, TOK_EOF,
	}, lexAll(t, "f(1,\n        2)\n"))
}

func TestLexerInconsistentDedent(t *testing.T) {
	l := NewLexer(bufio.NewReader(strings.NewReader("def f():\n        pass\n    pass\n")))

	var err error
	for err == nil {
		var tok *Token
		tok, err = l.NextToken()
		if err == nil && tok.Kind == TOK_EOF {
			break
		}
	}

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unindent does not match")
}

func TestLexerStringEscapes(t *testing.T) {
	l := NewLexer(bufio.NewReader(strings.NewReader(`"a\tb\"c"`)))

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TOK_STRINGLIT, tok.Kind)
	assert.Equal(t, "a\tb\"c", tok.Value)
}

// -----------------------------------------------------------------------------

const elifSrc = `def f(a: i64, b: i64):
    if a < b:
        x = yield 1.0
    elif a == b:
        x = yield 2.0
    else:
        x = yield 3.0
    return x
`

func TestParseElifChain(t *testing.T) {
	fd, err := ParseFunc(elifSrc)
	require.NoError(t, err)

	assert.Equal(t, "f", fd.Name)
	require.Len(t, fd.Params, 2)
	assert.Equal(t, "i64", fd.Params[1].TypeLabel)

	require.Len(t, fd.Body.Stmts, 2)
	head, ok := fd.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.False(t, head.Chained)

	inner, ok := head.ChainedElse()
	require.True(t, ok)
	assert.True(t, inner.Chained)
	assert.NotNil(t, inner.ElseBranch)

	_, ok = inner.ChainedElse()
	assert.False(t, ok)

	arms := head.Arms()
	require.Len(t, arms, 3)

	res, ok := arms[2].Last().(*ast.ResultStmt)
	require.True(t, ok)
	require.Len(t, res.Targets, 1)
	assert.Equal(t, "x", res.Targets[0].Name)
	assert.Equal(t, "3.0", ast.PrintExpr(res.Operands[0]))
}

func TestParsePrintRoundTrip(t *testing.T) {
	srcs := []string{
		elifSrc,
		"def g(c=True):\n    if c:\n        pass\n    else:\n        yield\n",
		"def h(x):\n    if (y := x + 1) > 2 and not x == 3:\n        p, q = yield (1, 2), -x\n    else:\n        p, q = yield (), x * (x - 1)\n",
		"def k(s=\"a\\tb\"):\n    print(s, None); z = 1 % 2\n",
	}

	for _, src := range srcs {
		fd, err := ParseFunc(src)
		require.NoError(t, err, src)

		printed := ast.Print(fd)
		again, err := ParseFunc(printed)
		require.NoError(t, err, printed)
		assert.Equal(t, printed, ast.Print(again))
	}
}

func TestParseWalrusCondition(t *testing.T) {
	fd, err := ParseFunc("def f(x):\n    if h := open_branch(x, (placeholder(),), 2):\n        pass\n")
	require.NoError(t, err)

	ifs := fd.Body.Stmts[0].(*ast.IfStmt)
	named, ok := ifs.Cond.(*ast.NamedExpr)
	require.True(t, ok)
	assert.Equal(t, "h", named.Target.Name)

	call := named.Value.(*ast.Call)
	name, _ := call.Callee()
	assert.Equal(t, "open_branch", name)
	require.Len(t, call.Args, 3)

	tup := call.Args[1].(*ast.Tuple)
	assert.Len(t, tup.Exprs, 1)
	assert.Empty(t, ifs.Body.Stmts)
}

func TestParseFileGlobals(t *testing.T) {
	src := "scale = 2\n\ndef f(a):\n    return a\n\ndef g():\n    return scale\n"

	f, err := Parse("test.py", strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "test.py", f.Path)
	require.Len(t, f.Globals, 1)
	assert.Equal(t, "scale", f.Globals[0].Targets[0].Name)
	require.Len(t, f.Defs, 2)

	_, ok := f.Def("g")
	assert.True(t, ok)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		msg  string
		line int
	}{
		{"def f():\n    if a < b < c:\n        pass\n", "comparison operators cannot be chained", 2},
		{"def f():\n    f(x) = 1\n", "cannot assign to expression", 2},
		{"def f(a, a):\n    pass\n", "duplicate parameter `a`", 1},
		{"def f():\n    else:\n        pass\n", "unexpected token: `else`", 2},
		{"def f():\n    x = (1\n", "unexpected newline", 3},
		{"def f():\n    a = b = 1\n", "unexpected token: `=`", 2},
	}

	for _, c := range cases {
		_, err := ParseFunc(c.src)
		require.Error(t, err, c.src)

		var lce *report.LocalCompileError
		require.True(t, errors.As(err, &lce), c.src)
		assert.Equal(t, c.msg, lce.Message)

		if c.line > 0 {
			assert.Equal(t, c.line, lce.Span.Line(), c.src)
		}
	}
}
