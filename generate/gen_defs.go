package generate

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	rir "regionc/ir"
)

// genFunc generates an LLVM function definition from a `func.func`.
func (g *Generator) genFunc(op *rir.Operation) error {
	name, _ := op.Attr("sym_name")
	entry := op.Regions[0].Entry()

	ret := entry.Terminator()
	if ret == nil || ret.Name != rir.OpReturn {
		return fmt.Errorf("function body must end with %s", rir.OpReturn)
	}

	rtType, err := convReturnType(rir.Types(ret.Operands))
	if err != nil {
		return err
	}

	// the block arguments of the entry block are the parameters
	g.values = make(map[*rir.Value]value.Value)
	params := make([]*ir.Param, len(entry.Args))
	for i, arg := range entry.Args {
		typ, err := convType(arg.Type())
		if err != nil {
			return err
		}

		params[i] = ir.NewParam(fmt.Sprintf("arg%d", i), typ)
		g.values[arg] = params[i]
	}

	g.enclosingFunc = g.mod.NewFunc(fmt.Sprint(name), rtType, params...)
	g.block = g.enclosingFunc.NewBlock("entry")

	_, err = g.genBlock(entry)
	return err
}
