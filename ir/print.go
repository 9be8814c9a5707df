package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print returns the textual form of a module.
func Print(mod *Module) string {
	pr := &printer{names: make(map[*Value]string)}

	pr.sb.WriteString("module {\n")
	pr.depth++
	pr.printBlock(mod.Body)
	pr.depth--
	pr.sb.WriteString("}\n")

	return pr.sb.String()
}

// PrintOp returns the textual form of a single operation and everything nested
// within it.  Values defined outside of the operation are printed as `%?`.
func PrintOp(op *Operation) string {
	pr := &printer{names: make(map[*Value]string)}
	pr.printOp(op)
	return pr.sb.String()
}

// printer writes the textual form of operations.  SSA values are numbered in
// order of definition within each function.
type printer struct {
	sb strings.Builder

	depth int

	names   map[*Value]string
	counter int
}

func (pr *printer) line() {
	pr.sb.WriteString(strings.Repeat("  ", pr.depth))
}

func (pr *printer) printBlock(b *Block) {
	for _, op := range b.Ops {
		// Operand-less yields are implied.
		if op.Name == OpYield && len(op.Operands) == 0 {
			continue
		}

		pr.printOp(op)
	}
}

func (pr *printer) printRegion(r *Region) {
	pr.depth++
	for _, b := range r.Blocks {
		pr.printBlock(b)
	}
	pr.depth--
}

// name returns the printed name of a value.
func (pr *printer) name(v *Value) string {
	if name, ok := pr.names[v]; ok {
		return name
	}

	return "%?"
}

// define assigns the next free name to each result of an operation and returns
// the result list prefix: eg. `%0, %1 = `.
func (pr *printer) define(op *Operation) string {
	if len(op.Results) == 0 {
		return ""
	}

	names := make([]string, len(op.Results))
	for i, result := range op.Results {
		names[i] = "%" + strconv.Itoa(pr.counter)
		pr.names[result] = names[i]
		pr.counter++
	}

	return strings.Join(names, ", ") + " = "
}

func (pr *printer) operands(values []*Value) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = pr.name(v)
	}

	return strings.Join(names, ", ")
}

func typeList(types []Type) string {
	reprs := make([]string, len(types))
	for i, typ := range types {
		reprs[i] = typ.Repr()
	}

	return strings.Join(reprs, ", ")
}

func (pr *printer) printOp(op *Operation) {
	pr.line()

	switch op.Name {
	case OpFunc:
		pr.printFunc(op)
		return
	case OpIf:
		pr.printIf(op)
		return
	case OpConstant:
		prefix := pr.define(op)
		value, _ := op.Attr("value")

		switch v := value.(type) {
		case bool:
			fmt.Fprintf(&pr.sb, "%s%s %t\n", prefix, op.Name, v)
		case float64:
			fmt.Fprintf(&pr.sb, "%s%s %s : %s\n", prefix, op.Name, strconv.FormatFloat(v, 'e', 6, 64), op.Results[0].typ.Repr())
		default:
			fmt.Fprintf(&pr.sb, "%s%s %v : %s\n", prefix, op.Name, v, op.Results[0].typ.Repr())
		}
	case OpCmpI, OpCmpF:
		operands := pr.operands(op.Operands)
		pred, _ := op.Attr("predicate")
		fmt.Fprintf(&pr.sb, "%s%s %s, %s : %s\n", pr.define(op), op.Name, pred, operands, op.Operands[0].typ.Repr())
	case OpYield, OpReturn:
		if len(op.Operands) == 0 {
			fmt.Fprintf(&pr.sb, "%s\n", op.Name)
		} else {
			fmt.Fprintf(&pr.sb, "%s %s : %s\n", op.Name, pr.operands(op.Operands), typeList(Types(op.Operands)))
		}
	default:
		operands := pr.operands(op.Operands)

		var typ string
		if len(op.Results) > 0 {
			typ = typeList(op.ResultTypes())
		} else {
			typ = typeList(Types(op.Operands))
		}

		fmt.Fprintf(&pr.sb, "%s%s %s : %s\n", pr.define(op), op.Name, operands, typ)
	}
}

// printFunc prints a function definition.  Numbering of values restarts in
// each function.
func (pr *printer) printFunc(op *Operation) {
	pr.counter = 0

	name, _ := op.Attr("sym_name")
	entry := op.Regions[0].Entry()

	args := make([]string, len(entry.Args))
	for i, arg := range entry.Args {
		pr.names[arg] = fmt.Sprintf("%%arg%d", i)
		args[i] = fmt.Sprintf("%%arg%d: %s", i, arg.typ.Repr())
	}

	fmt.Fprintf(&pr.sb, "%s @%s(%s) {\n", op.Name, name, strings.Join(args, ", "))
	pr.printRegion(op.Regions[0])
	pr.line()
	pr.sb.WriteString("}\n")
}

// printIf prints a branch operation with each of its regions.
func (pr *printer) printIf(op *Operation) {
	cond := pr.name(op.Operands[0])
	prefix := pr.define(op)

	if len(op.Results) == 0 {
		fmt.Fprintf(&pr.sb, "%s %s {\n", op.Name, cond)
	} else {
		fmt.Fprintf(&pr.sb, "%s%s %s -> (%s) {\n", prefix, op.Name, cond, typeList(op.ResultTypes()))
	}

	for i, region := range op.Regions {
		if i > 0 {
			pr.line()
			pr.sb.WriteString("} else {\n")
		}

		pr.printRegion(region)
	}

	pr.line()
	pr.sb.WriteString("}\n")
}
