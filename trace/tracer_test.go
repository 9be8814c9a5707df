package trace

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionc/ir"
	"regionc/region"
	"regionc/report"
	"regionc/syntax"
)

// load parses a source file and returns the named function bound to the
// file's globals.
func load(t *testing.T, src, name string) *Function {
	t.Helper()

	f, err := syntax.Parse("test.py", strings.NewReader(src))
	require.NoError(t, err)

	globals, err := NewGlobals(f)
	require.NoError(t, err)

	v, ok := globals.Lookup(name)
	require.True(t, ok)
	return v.(*Function)
}

const loweredIfElse = `def f(a: i64, b: i64):
    if __branch__1 := open_branch(a < b, (placeholder(),), 2):
        x = yield_(1.0)
        __branch__1 = close_branch(__branch__1)
    else:
        __branch__1 = enter_else(__branch__1)
        x = yield_(2.0)
        __branch__1 = close_branch(__branch__1)
    return x
`

func TestTraceIfElse(t *testing.T) {
	mod := ir.NewModule()
	op, err := TraceFunc(mod, load(t, loweredIfElse, "f"), nil)
	require.NoError(t, err)
	assert.Equal(t, ir.OpFunc, op.Name)

	expected := `module {
  func.func @f(%arg0: i64, %arg1: i64) {
    %0 = arith.cmpi ult, %arg0, %arg1 : i64
    %1 = scf.if %0 -> (f64) {
      %2 = arith.constant 1.000000e+00 : f64
      scf.yield %2 : f64
    } else {
      %3 = arith.constant 2.000000e+00 : f64
      scf.yield %3 : f64
    }
    func.return %1 : f64
  }
}
`
	assert.Equal(t, expected, ir.Print(mod))
	assert.NoError(t, ir.Verify(mod))
}

func TestTraceHostValues(t *testing.T) {
	src := `scale = 3

def g(x, k=2):
    if x > 1:
        y = x * k
    else:
        y = -x
    return y + scale, k % 2 == 0

def h():
    return g(5), g(0, 7)
`

	tr := &Tracer{}
	v, err := tr.Call(load(t, src, "h"))
	require.NoError(t, err)

	assert.Equal(t, Tuple{
		Tuple{int64(13), true},
		Tuple{int64(3), false},
	}, v)
}

func TestHostArithmeticMatchesIR(t *testing.T) {
	src := `def f(a, b=-7):
    return a / 2, a % 3, b / 2, b % 3, 7.5 % -2
`

	tr := &Tracer{}
	fn := load(t, src, "f")

	v, err := tr.Call(fn, int64(-7))
	require.NoError(t, err)
	assert.Equal(t, Tuple{int64(-3), int64(-1), int64(-3), int64(-1), 1.5}, v)

	// The same operators on a traced argument emit signed integer division.
	mod := ir.NewModule()
	_, err = TraceFunc(mod, fn, nil)
	require.NoError(t, err)

	text := ir.Print(mod)
	assert.Contains(t, text, "arith.divsi %arg0")
	assert.Contains(t, text, "arith.remsi %arg0")
}

func TestTraceDefaultsStayHost(t *testing.T) {
	src := `def f(a, flag=True):
    if flag:
        r = a + 1
    else:
        r = a
    return r
`

	mod := ir.NewModule()
	op, err := TraceFunc(mod, load(t, src, "f"), nil)
	require.NoError(t, err)

	// Only the parameter without a default is an argument and the host
	// conditional emits no branch.
	assert.Len(t, op.Regions[0].Entry().Args, 1)
	assert.NotContains(t, ir.Print(mod), "scf.if")
	assert.Contains(t, ir.Print(mod), "arith.addi %arg0, %0 : i64")
}

func TestTraceErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
		kind error
	}{
		{
			name: "unlowered IR condition",
			src:  "def f(a, b):\n    if a < b:\n        pass\n",
			msg:  "the conditional must be lowered",
		},
		{
			name: "raw yield",
			src:  "def f(a):\n    yield a\n",
			msg:  "`yield` outside of a lowered conditional",
		},
		{
			name: "return inside region",
			src:  "def f(a, b):\n    if h := open_branch(a < b, (), 1):\n        return a\n",
			msg:  "cannot return from inside a branch region",
		},
		{
			name: "undefined name",
			src:  "def f():\n    return missing\n",
			msg:  "undefined name `missing`",
		},
		{
			name: "unsealed branch",
			src:  "def f(a, b):\n    if h := open_branch(a < b, (), 1):\n        yield_()\n",
			kind: region.ErrUnsealed,
		},
		{
			name: "arity mismatch",
			src: `def f(a, b):
    if h := open_branch(a < b, (placeholder(),), 2):
        x = yield_(a, a)
        h = close_branch(h)
    else:
        h = enter_else(h)
        x = yield_(b)
        h = close_branch(h)
`,
			kind: region.ErrArityMismatch,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := TraceFunc(ir.NewModule(), load(t, c.src, "f"), nil)
			require.Error(t, err)

			if c.msg != "" {
				assert.Contains(t, err.Error(), c.msg)
			}

			if c.kind != nil {
				assert.True(t, errors.Is(err, c.kind), err.Error())
			}
		})
	}
}

func TestTraceErrorsCarryPosition(t *testing.T) {
	src := "def f(a, b):\n    x = 1\n    if a < b:\n        pass\n"

	_, err := TraceFunc(ir.NewModule(), load(t, src, "f"), nil)
	require.Error(t, err)

	var lce *report.LocalCompileError
	require.True(t, errors.As(err, &lce))
	assert.Equal(t, 3, lce.Span.Line())
}

func TestRebindSharesBindings(t *testing.T) {
	fn := load(t, "def f(a, b=4):\n    return a + b\n", "f")
	other := load(t, "def f(a, b=9):\n    return a * b\n", "f")

	rebound := fn.Rebind(other.Def)
	assert.Same(t, fn.Globals, rebound.Globals)

	v, err := (&Tracer{}).Call(rebound, int64(3))
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)
}
