package ir

// Operation is a single IR operation: eg. `arith.constant` or `scf.if`.  An
// operation may own regions whose blocks contain further operations.
type Operation struct {
	// The fully qualified name of the operation: eg. `scf.yield`.
	Name string

	Operands []*Value
	Results  []*Value
	Regions  []*Region

	// The named attributes of the operation.  This is nil if the operation has
	// no attributes.
	Attrs map[string]interface{}

	// The block containing the operation.
	Parent *Block
}

// Attr returns the named attribute of the operation.
func (op *Operation) Attr(name string) (interface{}, bool) {
	v, ok := op.Attrs[name]
	return v, ok
}

// ParentOp returns the operation whose region contains this operation or nil
// if the operation is at the top level of a module.
func (op *Operation) ParentOp() *Operation {
	if op.Parent == nil || op.Parent.Parent == nil {
		return nil
	}

	return op.Parent.Parent.Parent
}

// ResultTypes returns the types of the operation's results.
func (op *Operation) ResultTypes() []Type {
	return Types(op.Results)
}

// Attr is a named attribute of an operation.
type Attr struct {
	Name  string
	Value interface{}
}

// -----------------------------------------------------------------------------

// Region is an ordered list of blocks owned by an operation.
type Region struct {
	Blocks []*Block

	// The operation owning the region.
	Parent *Operation
}

// Entry returns the entry block of the region.
func (r *Region) Entry() *Block {
	return r.Blocks[0]
}

// Block is a basic block: a list of arguments and a list of operations, the
// last of which is normally a terminator.
type Block struct {
	Args []*Value
	Ops  []*Operation

	// The region containing the block.  This is nil for the body of a module.
	Parent *Region
}

// AddArg appends a new argument of the given type to the block.
func (b *Block) AddArg(typ Type) *Value {
	arg := &Value{typ: typ, Owner: b, Index: len(b.Args)}
	b.Args = append(b.Args, arg)
	return arg
}

// Terminator returns the last operation of the block if it is a terminator.
func (b *Block) Terminator() *Operation {
	if len(b.Ops) == 0 {
		return nil
	}

	if last := b.Ops[len(b.Ops)-1]; IsTerminator(last.Name) {
		return last
	}

	return nil
}

// IsTerminator returns whether the named operation terminates its block.
func IsTerminator(name string) bool {
	return name == OpYield || name == OpReturn
}

// -----------------------------------------------------------------------------

// Module is the top-level container of IR: a single block of operations,
// usually function definitions.
type Module struct {
	Body *Block
}

// NewModule creates a new empty module.
func NewModule() *Module {
	return &Module{Body: &Block{}}
}

// Funcs returns the function definitions of the module.
func (m *Module) Funcs() []*Operation {
	var funcs []*Operation
	for _, op := range m.Body.Ops {
		if op.Name == OpFunc {
			funcs = append(funcs, op)
		}
	}

	return funcs
}

// Walk calls visit on every operation nested within the block in pre-order.
func Walk(b *Block, visit func(op *Operation)) {
	for _, op := range b.Ops {
		visit(op)

		for _, region := range op.Regions {
			for _, inner := range region.Blocks {
				Walk(inner, visit)
			}
		}
	}
}
