package trace

import (
	"errors"
	"fmt"
	"strings"

	"regionc/ir"
	"regionc/region"
	"regionc/report"
)

// builtins are the functions available to every function body.
var builtins = []*Builtin{
	{Name: "constant", Fn: builtinConstant},
	{Name: "placeholder", Fn: builtinPlaceholder},
	{Name: "yield_", Fn: builtinYield},
	{Name: "open_branch", Fn: builtinOpenBranch},
	{Name: "open_else_if", Fn: builtinOpenElseIf},
	{Name: "enter_else", Fn: builtinEnterElse},
	{Name: "close_branch", Fn: builtinCloseBranch},
	{Name: "print", Fn: builtinPrint},
}

// builtinEnv creates the scope holding the builtins.
func builtinEnv() *Env {
	env := NewEnv(nil)
	for _, builtin := range builtins {
		env.Set(builtin.Name, builtin)
	}

	return env
}

// IsBuiltin returns whether name is the name of a builtin.
func IsBuiltin(name string) bool {
	for _, builtin := range builtins {
		if builtin.Name == name {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

func checkArgs(args []interface{}, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments but got %d", n, len(args))
	}

	return nil
}

// runtime returns the region builder runtime or fails if the tracer does not
// build IR.
func (t *Tracer) runtime() (*region.Runtime, error) {
	if t.rt == nil {
		return nil, errors.New("branches cannot be built here")
	}

	return t.rt, nil
}

// handleArg extracts a handle argument.
func handleArg(v interface{}) (*region.Handle, error) {
	h, ok := v.(*region.Handle)
	if !ok {
		return nil, fmt.Errorf("expected a handle but got %s", typeName(v))
	}

	return h, nil
}

// shapeArgs extracts the condition, result shape, and region count arguments
// of the branch opening builtins.
func (t *Tracer) shapeArgs(args []interface{}) (*ir.Value, []ir.Type, int, error) {
	cond, err := t.lift(args[0], nil)
	if err != nil {
		return nil, nil, 0, err
	}

	tuple, ok := args[1].(Tuple)
	if !ok {
		return nil, nil, 0, fmt.Errorf("expected a tuple of types but got %s", typeName(args[1]))
	}

	shape := make([]ir.Type, len(tuple))
	for i, elem := range tuple {
		if shape[i], ok = elem.(ir.Type); !ok {
			return nil, nil, 0, fmt.Errorf("expected a type but got %s", typeName(elem))
		}
	}

	regions, ok := args[2].(int64)
	if !ok {
		return nil, nil, 0, fmt.Errorf("expected a region count but got %s", typeName(args[2]))
	}

	return cond, shape, int(regions), nil
}

// -----------------------------------------------------------------------------

// constant(x) lifts a host value to an IR constant.
func builtinConstant(t *Tracer, args []interface{}) (interface{}, error) {
	if err := checkArgs(args, 1); err != nil {
		return nil, err
	}

	return t.lift(args[0], nil)
}

// placeholder() is the result type placeholder.
func builtinPlaceholder(t *Tracer, args []interface{}) (interface{}, error) {
	if err := checkArgs(args, 0); err != nil {
		return nil, err
	}

	return ir.Placeholder, nil
}

// yield_(x...) records the results of the innermost open region.  It returns
// the results of the enclosing chain: None, a single value, or a tuple.
func builtinYield(t *Tracer, args []interface{}) (interface{}, error) {
	rt, err := t.runtime()
	if err != nil {
		return nil, err
	}

	operands := make([]*ir.Value, len(args))
	for i, arg := range args {
		if operands[i], err = t.lift(arg, nil); err != nil {
			return nil, err
		}
	}

	results, err := rt.Yield(operands)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(results))
	for i, result := range results {
		values[i] = result
	}

	return packValues(values), nil
}

// open_branch(cond, shape, regions) opens a branch operation.
func builtinOpenBranch(t *Tracer, args []interface{}) (interface{}, error) {
	rt, err := t.runtime()
	if err != nil {
		return nil, err
	} else if err := checkArgs(args, 3); err != nil {
		return nil, err
	}

	cond, shape, regions, err := t.shapeArgs(args)
	if err != nil {
		return nil, err
	}

	return rt.OpenBranch(cond, shape, regions)
}

// open_else_if(h, cond, shape, regions) opens a branch operation in the else
// region of h.
func builtinOpenElseIf(t *Tracer, args []interface{}) (interface{}, error) {
	rt, err := t.runtime()
	if err != nil {
		return nil, err
	} else if err := checkArgs(args, 4); err != nil {
		return nil, err
	}

	h, err := handleArg(args[0])
	if err != nil {
		return nil, err
	}

	cond, shape, regions, err := t.shapeArgs(args[1:])
	if err != nil {
		return nil, err
	}

	return rt.OpenElseIf(h, cond, shape, regions)
}

// enter_else(h) enters the else region of h.
func builtinEnterElse(t *Tracer, args []interface{}) (interface{}, error) {
	rt, err := t.runtime()
	if err != nil {
		return nil, err
	} else if err := checkArgs(args, 1); err != nil {
		return nil, err
	}

	h, err := handleArg(args[0])
	if err != nil {
		return nil, err
	}

	return rt.EnterElse(h)
}

// close_branch(h) closes the current region of h.
func builtinCloseBranch(t *Tracer, args []interface{}) (interface{}, error) {
	rt, err := t.runtime()
	if err != nil {
		return nil, err
	} else if err := checkArgs(args, 1); err != nil {
		return nil, err
	}

	h, err := handleArg(args[0])
	if err != nil {
		return nil, err
	}

	return rt.CloseBranch(h)
}

// print(x...) displays its arguments.
func builtinPrint(t *Tracer, args []interface{}) (interface{}, error) {
	reprs := make([]string, len(args))
	for i, arg := range args {
		reprs[i] = repr(arg)
	}

	report.ReportInfo("print", "%s", strings.Join(reprs, " "))
	return nil, nil
}
