package generate

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// returnFromFunc generates a code snippet for returning values from a
// function.  Several values are packed into the function's return struct.
func (g *Generator) returnFromFunc(vals []value.Value) {
	switch len(vals) {
	case 0:
		g.block.NewRet(nil)
	case 1:
		g.block.NewRet(vals[0])
	default:
		var agg value.Value = constant.NewUndef(g.enclosingFunc.Sig.RetType)
		for i, val := range vals {
			agg = g.block.NewInsertValue(agg, val, uint64(i))
		}

		g.block.NewRet(agg)
	}
}
