package generate

import (
	"github.com/llir/llvm/ir"

	rir "regionc/ir"
)

// genIf generates a branch operation.  Each region is generated into its own
// block and all regions branch to a common end block.  A `phi` node is created
// in the end block for each result of the operation.
func (g *Generator) genIf(op *rir.Operation) error {
	cond, err := g.lookup(op.Operands[0])
	if err != nil {
		return err
	}

	// incoming will be used to produce the resulting `phi` nodes: one list of
	// incoming values per result.
	incoming := make([][]*ir.Incoming, len(op.Results))

	thenBlock := g.appendBlock()

	// endBlock is the block that all the regions will jump to to end the
	// operation.  It is attached once the regions are generated so that the
	// blocks of the function are in order.
	endBlock := ir.NewBlock("")

	// if there is no else region, then the else block is the ending block.
	elseBlock := endBlock
	if len(op.Regions) > 1 {
		elseBlock = g.appendBlock()
	}

	g.block.NewCondBr(cond, thenBlock, elseBlock)

	for i, region := range op.Regions {
		if i == 0 {
			g.block = thenBlock
		} else {
			g.block = elseBlock
		}

		yielded, err := g.genBlock(region.Entry())
		if err != nil {
			return err
		}

		// nested operations may have moved the generator to another block: the
		// incoming block is the one the region ends in.
		for j, val := range yielded {
			incoming[j] = append(incoming[j], ir.NewIncoming(val, g.block))
		}

		g.block.NewBr(endBlock)
	}

	g.attachBlock(endBlock)
	g.block = endBlock

	for j, result := range op.Results {
		g.values[result] = g.block.NewPhi(incoming[j]...)
	}

	return nil
}
