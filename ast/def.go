package ast

// File is a parsed source file: a list of function definitions and the
// top-level assignments which make up their enclosing bindings.
type File struct {
	// The path the file was loaded from.  This may be empty for in-memory
	// sources.
	Path string

	// The function definitions of the file in source order.
	Defs []*FuncDef

	// The top-level assignments of the file in source order.
	Globals []*Assignment
}

// Def looks up a function definition by name.
func (f *File) Def(name string) (*FuncDef, bool) {
	for _, def := range f.Defs {
		if def.Name == name {
			return def, true
		}
	}

	return nil, false
}

// -----------------------------------------------------------------------------

// FuncDef is an AST node for a function definition.
type FuncDef struct {
	ASTBase

	// The name of the function.
	Name string

	// The parameters of the function.
	Params []*Param

	// The body of the function.
	Body *Block
}

// Param is a single function parameter.
type Param struct {
	ASTBase

	// The name of the parameter.
	Name string

	// The type label of the parameter: eg. `i64`.  This may be empty in which
	// case the parameter has the default label.
	TypeLabel string

	// The default value of the parameter.  This may be nil.
	Default ASTExpr
}
