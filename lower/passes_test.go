package lower

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionc/ast"
	"regionc/ir"
	"regionc/syntax"
	"regionc/trace"
)

// load parses a source file and returns the named function bound to the
// file's globals.
func load(t *testing.T, src, name string) *trace.Function {
	t.Helper()

	f, err := syntax.Parse("test.py", strings.NewReader(src))
	require.NoError(t, err)

	globals, err := trace.NewGlobals(f)
	require.NoError(t, err)

	v, ok := globals.Lookup(name)
	require.True(t, ok)
	return v.(*trace.Function)
}

// lowerText lowers the function f of a source file and returns its text.
func lowerText(t *testing.T, src string, passes ...Pass) string {
	t.Helper()

	l, err := Lower(load(t, src, "f"), passes...)
	require.NoError(t, err)
	return l.Source
}

const scenarioA = `def f(a, b):
    if a < b:
        x = 1
        yield
`

const scenarioB = `def f(a, b, v, w):
    if a < b:
        yield v
    else:
        yield w
`

const scenarioC = `def f(a, b, c, d, v, w, z):
    if a < b:
        r = yield v, v
    elif c < d:
        r = yield w, w
    else:
        r = yield z, z
    return r
`

func TestLowerScenarios(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name: "single region",
			src:  scenarioA,
			expected: `def f(a, b):
    if __branch__1 := open_branch(a < b, (), 1):
        x = 1
        yield_()
        __branch__1 = close_branch(__branch__1)
`,
		},
		{
			name: "if else",
			src:  scenarioB,
			expected: `def f(a, b, v, w):
    if __branch__1 := open_branch(a < b, (placeholder(),), 2):
        yield_(v)
        __branch__1 = close_branch(__branch__1)
    else:
        __branch__1 = enter_else(__branch__1)
        yield_(w)
        __branch__1 = close_branch(__branch__1)
`,
		},
		{
			name: "elif chain",
			src:  scenarioC,
			expected: `def f(a, b, c, d, v, w, z):
    if __branch__1 := open_branch(a < b, (placeholder(), placeholder()), 2):
        r = yield_(v, v)
        __branch__1 = close_branch(__branch__1)
    elif __branch__2 := open_else_if(__branch__1, c < d, (placeholder(), placeholder()), 2):
        r = yield_(w, w)
        __branch__2 = close_branch(__branch__2)
    else:
        __branch__2 = enter_else(__branch__2)
        r = yield_(z, z)
        __branch__2 = close_branch(__branch__2)
    return r
`,
		},
		{
			name: "nested explicit else",
			src: `def f(a, b):
    if a < b:
        x = 1
    else:
        if b < a:
            x = 2
`,
			expected: `def f(a, b):
    if __branch__1 := open_branch(a < b, (), 2):
        x = 1
        yield_()
        __branch__1 = close_branch(__branch__1)
    else:
        __branch__1 = enter_else(__branch__1)
        if __branch__2 := open_branch(b < a, (), 1):
            x = 2
            yield_()
            __branch__2 = close_branch(__branch__2)
        yield_()
        __branch__1 = close_branch(__branch__1)
`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, lowerText(t, c.src))
		})
	}
}

func TestLowerSkipsHostCode(t *testing.T) {
	src := `def f(a, b):
    x = a + b
    return x * 2
`
	assert.Equal(t, src, lowerText(t, src))
}

func TestInsertImplicitResultsIdempotent(t *testing.T) {
	fn := load(t, scenarioC, "f")

	once, err := Lower(fn, InsertImplicitResults)
	require.NoError(t, err)

	twice, err := Lower(once.Func, InsertImplicitResults)
	require.NoError(t, err)
	assert.Equal(t, once.Source, twice.Source)

	src := `def f(a):
    if a:
        x = 1
    elif a:
        pass
    else:
        yield
`
	expected := `def f(a):
    if a:
        x = 1
        yield
    elif a:
        yield
    else:
        yield
`
	assert.Equal(t, expected, lowerText(t, src, InsertImplicitResults))
}

func TestFullPipelineIdempotent(t *testing.T) {
	for _, src := range []string{scenarioA, scenarioB, scenarioC} {
		once, err := Lower(load(t, src, "f"))
		require.NoError(t, err)

		twice, err := Lower(once.Func)
		require.NoError(t, err)
		assert.Equal(t, once.Source, twice.Source)
	}
}

func TestRewriteConditionsLinksChains(t *testing.T) {
	// Without the link pass, the condition pass links elifs itself.
	passes := []Pass{InsertImplicitResults, RewriteResults, RewriteConditions, InsertCloses, InsertElseEntries}
	assert.Equal(t, lowerText(t, scenarioC), lowerText(t, scenarioC, passes...))
}

func TestCheckResults(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		counts [3]int
		line   int
		reason string
	}{
		{
			name: "outside conditional",
			src: `def f():
    yield 1
`,
			counts: [3]int{0, 0, 1},
			line:   2,
			reason: "`yield` outside of a conditional",
		},
		{
			name: "not last",
			src: `def f(a):
    if a:
        yield a
        x = 1
    else:
        yield a
`,
			counts: [3]int{1, 1, 2},
			line:   3,
			reason: "`yield` must be the last statement of its branch",
		},
		{
			name: "missing else",
			src: `def f(a):
    if a:
        yield a
`,
			counts: [3]int{1, 0, 1},
			line:   2,
			reason: "a conditional producing results must have an else branch",
		},
		{
			name: "bad destructuring",
			src: `def f(a, b, c):
    if a:
        x, y = yield a, b, c
    else:
        x, y = yield a, b, c
`,
			counts: [3]int{1, 1, 2},
			line:   3,
			reason: "cannot bind 3 results to 2 names",
		},
		{
			name: "mixed chain",
			src: `def f(a, b, c, d):
    if a < b:
        yield a
    elif c < d:
        x = 1
    else:
        yield b
`,
			counts: [3]int{2, 2, 2},
			line:   5,
			reason: "every branch of a conditional producing results must end with `yield`",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Lower(load(t, c.src, "f"))
			require.Error(t, err)

			var pe *PipelineError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "check-results", pe.Pass)
			assert.Equal(t, 0, pe.Index)

			var sm *StructuralMismatch
			require.True(t, errors.As(err, &sm))
			assert.Equal(t, c.counts, [3]int{sm.Ifs, sm.Elses, sm.Results})
			assert.Equal(t, c.line, sm.Span.Line())
			assert.Equal(t, c.reason, sm.Reason)
			assert.Contains(t, err.Error(), "unmatched if/elses and yields")
		})
	}
}

func TestCheckResultsAcceptsResultlessMixes(t *testing.T) {
	src := `def f(a, b):
    if a:
        x = 1
    elif b:
        yield
    else:
        pass
`
	_, err := Lower(load(t, src, "f"), CheckResults)
	assert.NoError(t, err)
}

func TestNamerReserve(t *testing.T) {
	n := NewNamer(DefaultHandlePrefix)
	n.Reserve("x")
	n.Reserve("__branch__4")
	n.Reserve("__branch__2")
	n.Reserve("__branch__k")
	assert.Equal(t, "__branch__5", n.Fresh())
	assert.Equal(t, "__branch__6", n.Fresh())
}

func TestUserNamedConditionKeepsBinding(t *testing.T) {
	src := `def f(a, b):
    if __branch__tmp := a < b:
        r = yield a
    else:
        r = yield b
    return r, __branch__tmp
`
	n := NewNamer(DefaultHandlePrefix)
	assert.True(t, n.Minted("__branch__12"))
	assert.False(t, n.Minted("__branch__tmp"))
	assert.False(t, n.Minted("__branch__"))
	assert.False(t, n.Minted("__branch__+1"))

	l, err := Lower(load(t, src, "f"))
	require.NoError(t, err)
	assert.Contains(t, l.Source, "if __branch__1 := open_branch(")
	assert.Contains(t, l.Source, "__branch__tmp := a < b")

	// The user binding still holds the comparison rather than a handle.
	mod := ir.NewModule()
	op, err := trace.TraceFunc(mod, l.Func, nil)
	require.NoError(t, err)

	term := op.Regions[0].Entry().Terminator()
	require.NotNil(t, term)
	require.Len(t, term.Operands, 2)
	assert.Equal(t, ir.I1, term.Operands[1].Type())
}

func TestHandlePrefix(t *testing.T) {
	l, err := NewPipeline().WithHandlePrefix("_h").Run(load(t, scenarioB, "f"))
	require.NoError(t, err)
	assert.Contains(t, l.Source, "if _h1 := open_branch(a < b, (placeholder(),), 2):")
	assert.NotContains(t, l.Source, DefaultHandlePrefix)

	// The original definition is left untouched.
	assert.Equal(t, scenarioB, ast.Print(load(t, scenarioB, "f").Def))
}
