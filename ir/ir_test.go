package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSelect builds a function choosing between two float constants.
func buildSelect(t *testing.T) *Module {
	t.Helper()

	mod := NewModule()
	b := NewBuilder(mod)

	fn := b.Func("select", []Type{I64, I64})
	entry := fn.Regions[0].Entry()
	b.SetInsertionBlock(entry)

	cond, err := b.Compare(CmpLT, entry.Args[0], entry.Args[1])
	require.NoError(t, err)

	op, err := b.If(cond, []Type{F64}, 2)
	require.NoError(t, err)

	b.SetInsertionBlock(op.Regions[0].Entry())
	b.Yield([]*Value{b.ConstantFloat(1)})

	b.SetInsertionBlock(op.Regions[1].Entry())
	b.Yield([]*Value{b.ConstantFloat(2)})

	b.SetInsertionBlock(entry)
	b.Return(op.Results)

	return mod
}

func TestPrintBranch(t *testing.T) {
	expected := `module {
  func.func @select(%arg0: i64, %arg1: i64) {
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

	mod := buildSelect(t)
	assert.Equal(t, expected, Print(mod))
	assert.NoError(t, Verify(mod))
}

func TestPrintElidesEmptyYield(t *testing.T) {
	mod := NewModule()
	b := NewBuilder(mod)

	cond := b.ConstantBool(true)
	op, err := b.If(cond, nil, 1)
	require.NoError(t, err)

	b.SetInsertionBlock(op.Regions[0].Entry())
	b.ConstantInt(7)
	b.Yield(nil)

	assert.Equal(t, `module {
  %0 = arith.constant true
  scf.if %0 {
    %1 = arith.constant 7 : i64
  }
}
`, Print(mod))
	assert.NoError(t, Verify(mod))
}

func TestCompareAndBinary(t *testing.T) {
	b := NewBuilder(NewModule())

	i, f := b.ConstantInt(1), b.ConstantFloat(1)

	_, err := b.Compare(CmpEQ, i, f)
	assert.Error(t, err)

	v, err := b.Compare(CmpGE, f, f)
	require.NoError(t, err)
	assert.Equal(t, I1, v.Type())
	pred, _ := v.Def.Attr("predicate")
	assert.Equal(t, "oge", pred)
	assert.Equal(t, OpCmpF, v.Def.Name)

	sum, err := b.Binary(BinAdd, f, f)
	require.NoError(t, err)
	assert.Equal(t, "arith.addf", sum.Def.Name)

	_, err = b.Binary(BinAnd, f, f)
	assert.Error(t, err)

	_, err = b.If(i, nil, 1)
	assert.Error(t, err)
}

func TestVerifyFailures(t *testing.T) {
	t.Run("placeholder", func(t *testing.T) {
		mod := NewModule()
		b := NewBuilder(mod)

		op, err := b.If(b.ConstantBool(false), []Type{Placeholder}, 2)
		require.NoError(t, err)

		for _, region := range op.Regions {
			b.SetInsertionBlock(region.Entry())
			b.Yield([]*Value{b.ConstantInt(0)})
		}

		assert.Contains(t, Verify(mod).Error(), "placeholder")
	})

	t.Run("missing terminator", func(t *testing.T) {
		mod := NewModule()
		b := NewBuilder(mod)

		_, err := b.If(b.ConstantBool(false), nil, 1)
		require.NoError(t, err)

		assert.Contains(t, Verify(mod).Error(), "must end with scf.yield")
	})

	t.Run("dominance", func(t *testing.T) {
		mod := NewModule()
		b := NewBuilder(mod)

		op, err := b.If(b.ConstantBool(false), nil, 1)
		require.NoError(t, err)

		b.SetInsertionBlock(op.Regions[0].Entry())
		inner := b.ConstantInt(1)
		b.Yield(nil)

		b.SetInsertionBlock(mod.Body)
		_, err = b.Binary(BinAdd, inner, inner)
		require.NoError(t, err)

		assert.Contains(t, Verify(mod).Error(), "does not dominate")
	})

	t.Run("arity", func(t *testing.T) {
		mod := NewModule()
		b := NewBuilder(mod)

		op, err := b.If(b.ConstantBool(false), []Type{I64}, 2)
		require.NoError(t, err)

		b.SetInsertionBlock(op.Regions[0].Entry())
		b.Yield([]*Value{b.ConstantInt(1)})
		b.SetInsertionBlock(op.Regions[1].Entry())
		b.Yield(nil)

		assert.Contains(t, Verify(mod).Error(), "yields 0 values but 1 are expected")
	})
}
