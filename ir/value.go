package ir

// Value is an SSA value: either the result of an operation or an argument of a
// block.
type Value struct {
	typ Type

	// The operation defining this value.  This is nil for block arguments.
	Def *Operation

	// The block owning this value if it is a block argument.
	Owner *Block

	// The position of the value in its definer's results or its owner's
	// arguments.
	Index int
}

// Type returns the type of the value.
func (v *Value) Type() Type {
	return v.typ
}

// SetType updates the type of the value.  This is only used to resolve result
// type placeholders.
func (v *Value) SetType(typ Type) {
	v.typ = typ
}

// IsBlockArg returns whether the value is a block argument.
func (v *Value) IsBlockArg() bool {
	return v.Def == nil
}

// Types returns the types of a list of values.
func Types(values []*Value) []Type {
	types := make([]Type, len(values))
	for i, v := range values {
		types[i] = v.typ
	}

	return types
}
