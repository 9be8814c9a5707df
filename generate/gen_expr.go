package generate

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	rir "regionc/ir"
)

// genBlock generates the operations of a block in order.  If the block ends
// with an `scf.yield`, the LLVM values it yields are returned.
func (g *Generator) genBlock(block *rir.Block) ([]value.Value, error) {
	for _, op := range block.Ops {
		switch op.Name {
		case rir.OpYield:
			return g.lookupAll(op.Operands)
		case rir.OpReturn:
			vals, err := g.lookupAll(op.Operands)
			if err != nil {
				return nil, err
			}

			g.returnFromFunc(vals)
			return nil, nil
		case rir.OpIf:
			if err := g.genIf(op); err != nil {
				return nil, err
			}
		default:
			llv, err := g.genOp(op)
			if err != nil {
				return nil, err
			}

			g.values[op.Results[0]] = llv
		}
	}

	return nil, nil
}

// genOp generates a single value-producing operation.
func (g *Generator) genOp(op *rir.Operation) (value.Value, error) {
	if op.Name == rir.OpConstant {
		return genConstant(op)
	}

	if len(op.Operands) != 2 {
		return nil, fmt.Errorf("operation `%s` not supported", op.Name)
	}

	operands, err := g.lookupAll(op.Operands)
	if err != nil {
		return nil, err
	}

	lhs, rhs := operands[0], operands[1]

	switch op.Name {
	case rir.OpCmpI, rir.OpCmpF:
		pred, _ := op.Attr("predicate")
		return g.genCompare(op.Name, fmt.Sprint(pred), lhs, rhs)
	case "arith.addi":
		return g.block.NewAdd(lhs, rhs), nil
	case "arith.subi":
		return g.block.NewSub(lhs, rhs), nil
	case "arith.muli":
		return g.block.NewMul(lhs, rhs), nil
	case "arith.divsi":
		return g.block.NewSDiv(lhs, rhs), nil
	case "arith.remsi":
		return g.block.NewSRem(lhs, rhs), nil
	case "arith.andi":
		return g.block.NewAnd(lhs, rhs), nil
	case "arith.ori":
		return g.block.NewOr(lhs, rhs), nil
	case "arith.xori":
		return g.block.NewXor(lhs, rhs), nil
	case "arith.addf":
		return g.block.NewFAdd(lhs, rhs), nil
	case "arith.subf":
		return g.block.NewFSub(lhs, rhs), nil
	case "arith.mulf":
		return g.block.NewFMul(lhs, rhs), nil
	case "arith.divf":
		return g.block.NewFDiv(lhs, rhs), nil
	case "arith.remf":
		return g.block.NewFRem(lhs, rhs), nil
	}

	return nil, fmt.Errorf("operation `%s` not supported", op.Name)
}

// genConstant generates an `arith.constant`.
func genConstant(op *rir.Operation) (value.Value, error) {
	v, _ := op.Attr("value")

	switch x := v.(type) {
	case int64:
		return constant.NewInt(types.I64, x), nil
	case float64:
		return constant.NewFloat(types.Double, x), nil
	case bool:
		return constant.NewBool(x), nil
	}

	return nil, fmt.Errorf("invalid constant value: %v", v)
}

// intPreds and floatPreds map comparison predicates to their LLVM predicates.
var (
	intPreds = map[string]enum.IPred{
		"eq":  enum.IPredEQ,
		"ne":  enum.IPredNE,
		"ult": enum.IPredULT,
		"ule": enum.IPredULE,
		"ugt": enum.IPredUGT,
		"uge": enum.IPredUGE,
	}

	floatPreds = map[string]enum.FPred{
		"oeq": enum.FPredOEQ,
		"one": enum.FPredONE,
		"olt": enum.FPredOLT,
		"ole": enum.FPredOLE,
		"ogt": enum.FPredOGT,
		"oge": enum.FPredOGE,
	}
)

// genCompare generates an integer or float comparison.
func (g *Generator) genCompare(name, pred string, lhs, rhs value.Value) (value.Value, error) {
	if name == rir.OpCmpI {
		if ipred, ok := intPreds[pred]; ok {
			return g.block.NewICmp(ipred, lhs, rhs), nil
		}
	} else if fpred, ok := floatPreds[pred]; ok {
		return g.block.NewFCmp(fpred, lhs, rhs), nil
	}

	return nil, fmt.Errorf("unknown predicate `%s` for `%s`", pred, name)
}
