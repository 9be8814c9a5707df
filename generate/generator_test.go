package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rir "regionc/ir"
)

// branchModule builds `f(a, b) = a < b ? 1.0 : 2.0` with an `scf.if`.
func branchModule(t *testing.T) *rir.Module {
	t.Helper()

	mod := rir.NewModule()
	b := rir.NewBuilder(mod)

	fn := b.Func("f", []rir.Type{rir.I64, rir.I64})
	entry := fn.Regions[0].Entry()
	b.SetInsertionBlock(entry)

	cond, err := b.Compare(rir.CmpLT, entry.Args[0], entry.Args[1])
	require.NoError(t, err)

	ifOp, err := b.If(cond, []rir.Type{rir.F64}, 2)
	require.NoError(t, err)

	b.SetInsertionBlock(ifOp.Regions[0].Entry())
	b.Yield([]*rir.Value{b.ConstantFloat(1)})

	b.SetInsertionBlock(ifOp.Regions[1].Entry())
	b.Yield([]*rir.Value{b.ConstantFloat(2)})

	b.SetInsertionBlock(entry)
	b.Return(ifOp.Results)

	require.NoError(t, rir.Verify(mod))
	return mod
}

func TestGenerateBranch(t *testing.T) {
	mod, err := Generate(branchModule(t))
	require.NoError(t, err)
	require.Len(t, mod.Funcs, 1)

	text := mod.String()
	assert.Contains(t, text, "define double @f(i64 %arg0, i64 %arg1)")
	assert.Contains(t, text, "icmp ult i64 %arg0, %arg1")
	assert.Contains(t, text, "br i1")
	assert.Contains(t, text, "phi double")
	assert.Contains(t, text, "label %bb1, label %bb2")
	assert.Contains(t, text, "ret double")

	// The blocks read top-down: entry, then, else and end.
	blocks := mod.Funcs[0].Blocks
	require.Len(t, blocks, 4)
	for i, name := range []string{"entry", "bb1", "bb2", "bb3"} {
		assert.Equal(t, name, blocks[i].Name())
	}

	assert.Less(t, strings.Index(text, "bb2:"), strings.Index(text, "bb3:"))
	assert.Contains(t, blocks[3].LLString(), "phi double")
}

func TestGenerateNestedBranch(t *testing.T) {
	mod := rir.NewModule()
	b := rir.NewBuilder(mod)

	fn := b.Func("g", []rir.Type{rir.I1, rir.I1, rir.I64})
	entry := fn.Regions[0].Entry()
	b.SetInsertionBlock(entry)

	outer, err := b.If(entry.Args[0], []rir.Type{rir.I64}, 2)
	require.NoError(t, err)

	b.SetInsertionBlock(outer.Regions[0].Entry())
	b.Yield([]*rir.Value{entry.Args[2]})

	b.SetInsertionBlock(outer.Regions[1].Entry())
	inner, err := b.If(entry.Args[1], []rir.Type{rir.I64}, 2)
	require.NoError(t, err)
	b.Yield(inner.Results)

	b.SetInsertionBlock(inner.Regions[0].Entry())
	sum, err := b.Binary(rir.BinAdd, entry.Args[2], b.ConstantInt(1))
	require.NoError(t, err)
	b.Yield([]*rir.Value{sum})

	b.SetInsertionBlock(inner.Regions[1].Entry())
	b.Yield([]*rir.Value{b.ConstantInt(0)})

	b.SetInsertionBlock(entry)
	b.Return([]*rir.Value{outer.Results[0], entry.Args[0]})
	require.NoError(t, rir.Verify(mod))

	llMod, err := Generate(mod)
	require.NoError(t, err)

	text := llMod.String()
	assert.Equal(t, 2, strings.Count(text, "phi i64"))
	assert.Contains(t, text, "add i64 %arg2, 1")
	assert.Contains(t, text, "insertvalue")
	assert.Contains(t, text, "define { i64, i1 } @g(")

	// The outer end block follows the blocks of the inner operation.
	blocks := llMod.Funcs[0].Blocks
	require.Len(t, blocks, 7)
	assert.Contains(t, blocks[6].LLString(), "phi i64")
	assert.Contains(t, blocks[6].LLString(), "insertvalue")
}

func TestGenerateSingleRegion(t *testing.T) {
	mod := rir.NewModule()
	b := rir.NewBuilder(mod)

	fn := b.Func("h", []rir.Type{rir.I1})
	entry := fn.Regions[0].Entry()
	b.SetInsertionBlock(entry)

	ifOp, err := b.If(entry.Args[0], nil, 1)
	require.NoError(t, err)

	b.SetInsertionBlock(ifOp.Regions[0].Entry())
	b.ConstantInt(3)
	b.Yield(nil)

	b.SetInsertionBlock(entry)
	b.Return(nil)

	llMod, err := Generate(mod)
	require.NoError(t, err)

	text := llMod.String()
	assert.Contains(t, text, "define void @h(i1 %arg0)")
	assert.Contains(t, text, "ret void")
	assert.NotContains(t, text, "phi")
}

func TestGenerateRejectsPlaceholders(t *testing.T) {
	mod := rir.NewModule()
	b := rir.NewBuilder(mod)

	fn := b.Func("p", []rir.Type{rir.Placeholder})
	b.SetInsertionBlock(fn.Regions[0].Entry())
	b.Return(nil)

	_, err := Generate(mod)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@p")
}
