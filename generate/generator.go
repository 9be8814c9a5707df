package generate

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	rir "regionc/ir"
)

// Generator is responsible for converting a module of region IR into LLVM IR.
// Each branch operation is flattened into basic blocks: a conditional branch
// into a block per region and a merge block collecting the results of the
// regions through `phi` nodes.
type Generator struct {
	// src is the module being converted.
	src *rir.Module

	// mod is the LLVM module being generated.
	mod *ir.Module

	// enclosingFunc is function enclosing the block being generated.
	enclosingFunc *ir.Func

	// block is the basic block instructions are currently appended to.
	block *ir.Block

	// values maps the values of the function being generated to their LLVM
	// values.
	values map[*rir.Value]value.Value
}

// NewGenerator creates a new generator for the given module.
func NewGenerator(src *rir.Module) *Generator {
	return &Generator{src: src, mod: ir.NewModule()}
}

// Generate converts a module of region IR into an LLVM module.  The module
// must verify.
func Generate(src *rir.Module) (*ir.Module, error) {
	return NewGenerator(src).Generate()
}

// Generate runs the generation algorithm for the source module.
func (g *Generator) Generate() (*ir.Module, error) {
	for _, op := range g.src.Body.Ops {
		if op.Name != rir.OpFunc {
			return nil, fmt.Errorf("unexpected top-level operation `%s`", op.Name)
		}

		if err := g.genFunc(op); err != nil {
			name, _ := op.Attr("sym_name")
			return nil, fmt.Errorf("@%s: %w", name, err)
		}
	}

	return g.mod, nil
}

// -----------------------------------------------------------------------------

// lookup returns the LLVM value of a value of the current function.
func (g *Generator) lookup(v *rir.Value) (value.Value, error) {
	if llv, ok := g.values[v]; ok {
		return llv, nil
	}

	return nil, fmt.Errorf("use of undefined value")
}

// lookupAll returns the LLVM values of a list of values.
func (g *Generator) lookupAll(vs []*rir.Value) ([]value.Value, error) {
	llvs := make([]value.Value, len(vs))
	for i, v := range vs {
		llv, err := g.lookup(v)
		if err != nil {
			return nil, err
		}

		llvs[i] = llv
	}

	return llvs, nil
}

// appendBlock adds a new basic block to the current function.  It does *not*
// set the current block to this new block.
func (g *Generator) appendBlock() *ir.Block {
	return g.enclosingFunc.NewBlock(fmt.Sprintf("bb%d", len(g.enclosingFunc.Blocks)))
}

// attachBlock appends a block created outside of the enclosing function.
func (g *Generator) attachBlock(block *ir.Block) {
	block.SetName(fmt.Sprintf("bb%d", len(g.enclosingFunc.Blocks)))
	block.Parent = g.enclosingFunc
	g.enclosingFunc.Blocks = append(g.enclosingFunc.Blocks, block)
}
