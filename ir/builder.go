package ir

import "fmt"

// Names of the operations the builder creates.
const (
	OpConstant = "arith.constant"
	OpCmpI     = "arith.cmpi"
	OpCmpF     = "arith.cmpf"
	OpFunc     = "func.func"
	OpReturn   = "func.return"
	OpIf       = "scf.if"
	OpYield    = "scf.yield"
)

// Builder is used to build IR operations into a module.  It has a single
// writable cursor: the insertion block.  New operations are always appended to
// the end of the insertion block.
type Builder struct {
	mod *Module

	// The block operations are currently being inserted into.
	block *Block
}

// NewBuilder creates a new builder positioned at the end of the module body.
func NewBuilder(mod *Module) *Builder {
	return &Builder{mod: mod, block: mod.Body}
}

// Module returns the module being built.
func (b *Builder) Module() *Module {
	return b.mod
}

// InsertionBlock returns the block the builder is inserting into.
func (b *Builder) InsertionBlock() *Block {
	return b.block
}

// SetInsertionBlock moves the builder's cursor to the end of block.
func (b *Builder) SetInsertionBlock(block *Block) {
	b.block = block
}

// Create appends a new operation to the insertion block.  The operation is
// given a result for each result type and numRegions regions each with a
// single empty block.
func (b *Builder) Create(name string, operands []*Value, resultTypes []Type, numRegions int, attrs ...Attr) *Operation {
	op := &Operation{
		Name:     name,
		Operands: operands,
		Parent:   b.block,
	}

	for i, typ := range resultTypes {
		op.Results = append(op.Results, &Value{typ: typ, Def: op, Index: i})
	}

	for i := 0; i < numRegions; i++ {
		region := &Region{Parent: op}
		region.Blocks = []*Block{{Parent: region}}
		op.Regions = append(op.Regions, region)
	}

	if len(attrs) > 0 {
		op.Attrs = make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			op.Attrs[attr.Name] = attr.Value
		}
	}

	b.block.Ops = append(b.block.Ops, op)
	return op
}

// -----------------------------------------------------------------------------

// ConstantInt builds an `i64` constant.
func (b *Builder) ConstantInt(v int64) *Value {
	return b.Create(OpConstant, nil, []Type{I64}, 0, Attr{"value", v}).Results[0]
}

// ConstantFloat builds an `f64` constant.
func (b *Builder) ConstantFloat(v float64) *Value {
	return b.Create(OpConstant, nil, []Type{F64}, 0, Attr{"value", v}).Results[0]
}

// ConstantBool builds an `i1` constant.
func (b *Builder) ConstantBool(v bool) *Value {
	return b.Create(OpConstant, nil, []Type{I1}, 0, Attr{"value", v}).Results[0]
}

// Enumeration of comparison kinds.
const (
	CmpEQ = iota
	CmpNE
	CmpLT
	CmpLE
	CmpGT
	CmpGE
)

// intPredicates are the predicates of integer comparisons.  Ordered
// comparisons are unsigned.
var intPredicates = [...]string{"eq", "ne", "ult", "ule", "ugt", "uge"}

// floatPredicates are the predicates of float comparisons.  All float
// comparisons are ordered.
var floatPredicates = [...]string{"oeq", "one", "olt", "ole", "ogt", "oge"}

// Compare builds a comparison of two values of the same type.  The result is
// always `i1`.
func (b *Builder) Compare(kind int, lhs, rhs *Value) (*Value, error) {
	if lhs.typ != rhs.typ {
		return nil, fmt.Errorf("cannot compare %s with %s", lhs.typ.Repr(), rhs.typ.Repr())
	}

	var op *Operation
	switch {
	case IsInt(lhs.typ):
		op = b.Create(OpCmpI, []*Value{lhs, rhs}, []Type{I1}, 0, Attr{"predicate", intPredicates[kind]})
	case IsFloat(lhs.typ):
		op = b.Create(OpCmpF, []*Value{lhs, rhs}, []Type{I1}, 0, Attr{"predicate", floatPredicates[kind]})
	default:
		return nil, fmt.Errorf("cannot compare values of type %s", lhs.typ.Repr())
	}

	return op.Results[0], nil
}

// Enumeration of binary arithmetic and logical kinds.
const (
	BinAdd = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinAnd
	BinOr
	BinXor
)

// intBinOps and floatBinOps name the operations implementing each binary kind.
// Logical kinds have no float form.
var (
	intBinOps   = [...]string{"arith.addi", "arith.subi", "arith.muli", "arith.divsi", "arith.remsi", "arith.andi", "arith.ori", "arith.xori"}
	floatBinOps = [...]string{"arith.addf", "arith.subf", "arith.mulf", "arith.divf", "arith.remf", "", "", ""}
)

// Binary builds a binary operation on two values of the same type.
func (b *Builder) Binary(kind int, lhs, rhs *Value) (*Value, error) {
	if lhs.typ != rhs.typ {
		return nil, fmt.Errorf("mismatched operand types %s and %s", lhs.typ.Repr(), rhs.typ.Repr())
	}

	var name string
	switch {
	case IsInt(lhs.typ):
		name = intBinOps[kind]
	case IsFloat(lhs.typ):
		name = floatBinOps[kind]
	}

	if name == "" {
		return nil, fmt.Errorf("invalid operand type %s", lhs.typ.Repr())
	}

	return b.Create(name, []*Value{lhs, rhs}, []Type{lhs.typ}, 0).Results[0], nil
}

// -----------------------------------------------------------------------------

// Func builds a function definition whose entry block takes arguments of the
// given types.  The builder's cursor is not moved.
func (b *Builder) Func(name string, argTypes []Type) *Operation {
	op := b.Create(OpFunc, nil, nil, 1, Attr{"sym_name", name})

	entry := op.Regions[0].Entry()
	for _, typ := range argTypes {
		entry.AddArg(typ)
	}

	return op
}

// Return builds a function return.
func (b *Builder) Return(values []*Value) *Operation {
	return b.Create(OpReturn, values, nil, 0)
}

// If builds a branch operation: an `scf.if` with a result of each result type
// and numRegions regions.  The builder's cursor is not moved.
func (b *Builder) If(cond *Value, resultTypes []Type, numRegions int) (*Operation, error) {
	if cond.typ != I1 {
		return nil, fmt.Errorf("branch condition must be i1 not %s", cond.typ.Repr())
	}

	return b.Create(OpIf, []*Value{cond}, resultTypes, numRegions), nil
}

// Yield builds a region terminator carrying values out of the region.
func (b *Builder) Yield(values []*Value) *Operation {
	return b.Create(OpYield, values, nil, 0)
}
