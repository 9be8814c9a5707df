package ir

// Type represents a type that can be used in IR.
type Type interface {
	// Repr returns the string representation of the IR type.
	Repr() string
}

// -----------------------------------------------------------------------------

// PrimType represents an IR primitive type.  It must be one of the enumerated
// IR primitive types.
type PrimType int

// Enumeration of IR PrimTypes
const (
	PrimI1 PrimType = iota
	PrimI64
	PrimF64
)

func (pt PrimType) Repr() string {
	switch pt {
	case PrimI1:
		return "i1"
	case PrimI64:
		return "i64"
	default: // PrimF64
		return "f64"
	}
}

// The primitive types as Types.
var (
	I1  Type = PrimI1
	I64 Type = PrimI64
	F64 Type = PrimF64
)

// -----------------------------------------------------------------------------

// PlaceholderType is the type of a result whose type is not known yet.  It is
// used to declare the arity of a branch operation before any of its regions
// have been built.  No placeholder may remain in a verified module.
type PlaceholderType struct{}

func (PlaceholderType) Repr() string {
	return "!placeholder"
}

// Placeholder is the result type placeholder.
var Placeholder Type = PlaceholderType{}

// -----------------------------------------------------------------------------

// IsPlaceholder returns whether typ is the result type placeholder.
func IsPlaceholder(typ Type) bool {
	_, ok := typ.(PlaceholderType)
	return ok
}

// IsInt returns whether typ is an integer type.  Booleans count as integers.
func IsInt(typ Type) bool {
	return typ == I1 || typ == I64
}

// IsFloat returns whether typ is a floating-point type.
func IsFloat(typ Type) bool {
	return typ == F64
}

// TypeByLabel returns the type named by a source type label: eg. `i64`.
func TypeByLabel(label string) (Type, bool) {
	switch label {
	case "i1", "bool":
		return I1, true
	case "i64", "int":
		return I64, true
	case "f64", "float":
		return F64, true
	}

	return nil, false
}
