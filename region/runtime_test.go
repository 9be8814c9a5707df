package region

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionc/ir"
)

func newRuntime() (*Runtime, *ir.Builder) {
	b := ir.NewBuilder(ir.NewModule())
	return NewRuntime(b), b
}

func placeholders(n int) []ir.Type {
	shape := make([]ir.Type, n)
	for i := range shape {
		shape[i] = ir.Placeholder
	}

	return shape
}

func TestSingleRegionNoResults(t *testing.T) {
	rt, b := newRuntime()
	body := b.InsertionBlock()

	h, err := rt.OpenBranch(b.ConstantBool(true), nil, 1)
	require.NoError(t, err)
	assert.True(t, h.Truthy())
	assert.Len(t, h.Pending(), 1)

	b.ConstantInt(1)
	_, err = rt.Yield(nil)
	require.NoError(t, err)

	h, err = rt.CloseBranch(h)
	require.NoError(t, err)

	assert.Equal(t, Sealed, h.State())
	assert.Empty(t, h.Pending())
	assert.Same(t, body, b.InsertionBlock())
	assert.NoError(t, rt.Finish())
	assert.NoError(t, ir.Verify(b.Module()))

	op := h.Op()
	require.Len(t, op.Regions, 1)
	assert.Empty(t, op.Results)
	assert.Empty(t, op.Regions[0].Entry().Terminator().Operands)
}

func TestIfElseResolvesPlaceholders(t *testing.T) {
	rt, b := newRuntime()

	h, err := rt.OpenBranch(b.ConstantBool(true), placeholders(1), 2)
	require.NoError(t, err)

	results, err := rt.Yield([]*ir.Value{b.ConstantFloat(1)})
	require.NoError(t, err)
	assert.Same(t, h.Op().Results[0], results[0])

	h, err = rt.CloseBranch(h)
	require.NoError(t, err)
	assert.Equal(t, BranchClosed, h.State())
	assert.Len(t, h.Pending(), 1)

	// The cursor is primed in the else region before it is entered.
	assert.Same(t, h.Op().Regions[1].Entry(), b.InsertionBlock())

	h, err = rt.EnterElse(h)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Region())

	_, err = rt.Yield([]*ir.Value{b.ConstantFloat(2)})
	require.NoError(t, err)

	h, err = rt.CloseBranch(h)
	require.NoError(t, err)

	assert.Equal(t, Sealed, h.State())
	assert.Equal(t, ir.F64, h.Op().Results[0].Type())
	assert.NoError(t, rt.Finish())
	assert.NoError(t, ir.Verify(b.Module()))
}

func TestElifChainCascades(t *testing.T) {
	rt, b := newRuntime()

	outer, err := rt.OpenBranch(b.ConstantBool(true), placeholders(2), 2)
	require.NoError(t, err)

	v := b.ConstantInt(1)
	_, err = rt.Yield([]*ir.Value{v, v})
	require.NoError(t, err)

	outer, err = rt.CloseBranch(outer)
	require.NoError(t, err)

	// The elif condition is computed in the outer else region.
	cond := b.ConstantBool(false)
	assert.Same(t, outer.Op().Regions[1].Entry(), cond.Def.Parent)

	inner, err := rt.OpenElseIf(outer, cond, placeholders(2), 2)
	require.NoError(t, err)
	assert.True(t, outer.Stale())
	assert.Equal(t, 2, rt.Depth())

	w := b.ConstantInt(2)
	results, err := rt.Yield([]*ir.Value{w, w})
	require.NoError(t, err)
	assert.Equal(t, outer.Op().Results, results)

	inner, err = rt.CloseBranch(inner)
	require.NoError(t, err)

	inner, err = rt.EnterElse(inner)
	require.NoError(t, err)

	z := b.ConstantInt(3)
	_, err = rt.Yield([]*ir.Value{z, z})
	require.NoError(t, err)

	inner, err = rt.CloseBranch(inner)
	require.NoError(t, err)
	assert.Equal(t, Sealed, inner.State())

	require.NoError(t, rt.Finish())
	assert.Equal(t, []*ir.Operation{inner.Op(), outer.Op()}, rt.Sealed())
	assert.Same(t, outer.Op(), inner.Op().ParentOp())
	assert.Same(t, b.Module().Body, b.InsertionBlock())
	assert.NoError(t, ir.Verify(b.Module()))

	// The outer else region yields the inner results.
	term := outer.Op().Regions[1].Entry().Terminator()
	assert.Equal(t, inner.Op().Results, term.Operands)
}

func TestBranchInPrimedElse(t *testing.T) {
	rt, b := newRuntime()

	outer, err := rt.OpenBranch(b.ConstantBool(true), placeholders(1), 2)
	require.NoError(t, err)
	_, err = rt.Yield([]*ir.Value{b.ConstantInt(1)})
	require.NoError(t, err)
	outer, err = rt.CloseBranch(outer)
	require.NoError(t, err)

	// A conditional evaluated while computing an elif condition.
	primed := b.InsertionBlock()
	call, err := rt.OpenBranch(b.ConstantBool(false), placeholders(1), 2)
	require.NoError(t, err)
	assert.Same(t, primed, call.Op().Parent)

	// The primed region cannot be entered until the nested branch is sealed.
	_, err = rt.EnterElse(outer)
	assert.True(t, errors.Is(err, ErrUnexpectedElse))

	_, err = rt.Yield([]*ir.Value{b.ConstantBool(true)})
	require.NoError(t, err)
	call, err = rt.CloseBranch(call)
	require.NoError(t, err)
	call, err = rt.EnterElse(call)
	require.NoError(t, err)
	_, err = rt.Yield([]*ir.Value{b.ConstantBool(false)})
	require.NoError(t, err)
	call, err = rt.CloseBranch(call)
	require.NoError(t, err)

	assert.Equal(t, Sealed, call.State())
	assert.Same(t, primed, b.InsertionBlock())
	assert.False(t, outer.Stale())

	inner, err := rt.OpenElseIf(outer, call.Op().Results[0], placeholders(1), 2)
	require.NoError(t, err)
	_, err = rt.Yield([]*ir.Value{b.ConstantInt(2)})
	require.NoError(t, err)
	inner, err = rt.CloseBranch(inner)
	require.NoError(t, err)
	inner, err = rt.EnterElse(inner)
	require.NoError(t, err)
	_, err = rt.Yield([]*ir.Value{b.ConstantInt(3)})
	require.NoError(t, err)
	_, err = rt.CloseBranch(inner)
	require.NoError(t, err)

	require.NoError(t, rt.Finish())
	assert.Equal(t, []*ir.Operation{call.Op(), inner.Op(), outer.Op()}, rt.Sealed())
	assert.NoError(t, ir.Verify(b.Module()))
}

func TestArityMismatch(t *testing.T) {
	rt, b := newRuntime()

	h, err := rt.OpenBranch(b.ConstantBool(true), placeholders(2), 2)
	require.NoError(t, err)

	v := b.ConstantInt(1)
	_, err = rt.Yield([]*ir.Value{v, v})
	require.NoError(t, err)
	h, err = rt.CloseBranch(h)
	require.NoError(t, err)
	h, err = rt.EnterElse(h)
	require.NoError(t, err)

	_, err = rt.Yield([]*ir.Value{v})
	require.NoError(t, err)
	_, err = rt.CloseBranch(h)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArityMismatch))

	var ae *AutomatonError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 1, ae.Region)
	assert.Same(t, h.Op(), ae.Op)

	assert.True(t, errors.Is(rt.Finish(), ErrUnsealed))
}

func TestTypeMismatch(t *testing.T) {
	rt, b := newRuntime()

	h, err := rt.OpenBranch(b.ConstantBool(true), placeholders(1), 2)
	require.NoError(t, err)

	_, _ = rt.Yield([]*ir.Value{b.ConstantInt(1)})
	h, err = rt.CloseBranch(h)
	require.NoError(t, err)
	h, err = rt.EnterElse(h)
	require.NoError(t, err)

	_, _ = rt.Yield([]*ir.Value{b.ConstantFloat(1)})
	_, err = rt.CloseBranch(h)
	assert.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestOutOfSequenceTransitions(t *testing.T) {
	t.Run("stale handle", func(t *testing.T) {
		rt, b := newRuntime()

		first, err := rt.OpenBranch(b.ConstantBool(true), nil, 2)
		require.NoError(t, err)

		_, err = rt.CloseBranch(first)
		require.NoError(t, err)

		_, err = rt.EnterElse(first)
		assert.True(t, errors.Is(err, ErrUnexpectedElse))

		_, err = rt.CloseBranch(first)
		assert.True(t, errors.Is(err, ErrUnexpectedClose))
	})

	t.Run("enter else while open", func(t *testing.T) {
		rt, b := newRuntime()

		h, err := rt.OpenBranch(b.ConstantBool(true), nil, 2)
		require.NoError(t, err)

		_, err = rt.EnterElse(h)
		assert.True(t, errors.Is(err, ErrUnexpectedElse))
	})

	t.Run("close outer before inner", func(t *testing.T) {
		rt, b := newRuntime()

		outer, err := rt.OpenBranch(b.ConstantBool(true), nil, 1)
		require.NoError(t, err)

		_, err = rt.OpenBranch(b.ConstantBool(false), nil, 1)
		require.NoError(t, err)

		_, err = rt.CloseBranch(outer)
		assert.True(t, errors.Is(err, ErrUnexpectedClose))
	})

	t.Run("yield in primed else", func(t *testing.T) {
		rt, b := newRuntime()

		h, err := rt.OpenBranch(b.ConstantBool(true), nil, 2)
		require.NoError(t, err)
		_, err = rt.CloseBranch(h)
		require.NoError(t, err)

		_, err = rt.Yield(nil)
		assert.True(t, errors.Is(err, ErrUnexpectedYield))

		assert.True(t, errors.Is(rt.Finish(), ErrUnsealed))
	})

	t.Run("yield outside of a branch", func(t *testing.T) {
		rt, _ := newRuntime()

		_, err := rt.Yield(nil)
		assert.True(t, errors.Is(err, ErrUnexpectedYield))
	})

	t.Run("results without else", func(t *testing.T) {
		rt, b := newRuntime()

		_, err := rt.OpenBranch(b.ConstantBool(true), placeholders(1), 1)
		assert.True(t, errors.Is(err, ErrArityMismatch))
	})

	t.Run("region count", func(t *testing.T) {
		rt, b := newRuntime()

		for _, regions := range []int{0, 3} {
			_, err := rt.OpenBranch(b.ConstantBool(true), nil, regions)
			assert.True(t, errors.Is(err, ErrMalformedBranch))
		}

		assert.Equal(t, 0, rt.Depth())
	})

	t.Run("non boolean condition", func(t *testing.T) {
		rt, b := newRuntime()

		_, err := rt.OpenBranch(b.ConstantInt(1), nil, 1)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})
}
