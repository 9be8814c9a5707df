package trace

import (
	"regionc/ast"
	"regionc/ir"
	"regionc/report"
)

// Function is a callable function: a definition bound to the global scope it
// was defined in along with its evaluated default arguments.
type Function struct {
	Def *ast.FuncDef

	// The scope the function body's free names are resolved in.
	Globals *Env

	// The values of the parameters with defaults by parameter name.  Defaults
	// are evaluated once, when the function is created.
	Defaults map[string]interface{}
}

// NewFunction creates a new function from its definition, evaluating its
// default arguments in globals.
func NewFunction(def *ast.FuncDef, globals *Env) (*Function, error) {
	fn := &Function{
		Def:      def,
		Globals:  globals,
		Defaults: make(map[string]interface{}),
	}

	t := &Tracer{}
	for _, param := range def.Params {
		if param.Default == nil {
			continue
		}

		v, err := t.eval(globals, param.Default)
		if err != nil {
			return nil, report.Wrap(param.Span(), err)
		}

		fn.Defaults[param.Name] = v
	}

	return fn, nil
}

// Rebind creates a function with a new definition sharing this function's
// globals and defaults.  The new definition must have the same parameters.
func (fn *Function) Rebind(def *ast.FuncDef) *Function {
	return &Function{
		Def:      def,
		Globals:  fn.Globals,
		Defaults: fn.Defaults,
	}
}

// Name returns the name of the function.
func (fn *Function) Name() string {
	return fn.Def.Name
}

// ArgTypes returns the IR types of the parameters without defaults: those are
// the arguments of the function when it is traced.  Unlabeled parameters are
// `i64`.
func (fn *Function) ArgTypes() ([]ir.Type, error) {
	var types []ir.Type
	for _, param := range fn.Def.Params {
		if _, ok := fn.Defaults[param.Name]; ok {
			continue
		}

		if param.TypeLabel == "" {
			types = append(types, ir.I64)
			continue
		}

		typ, ok := ir.TypeByLabel(param.TypeLabel)
		if !ok {
			return nil, report.Raise(param.Span(), "unknown type `%s`", param.TypeLabel)
		}

		types = append(types, typ)
	}

	return types, nil
}
