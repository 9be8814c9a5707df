package trace

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"regionc/ast"
	"regionc/ir"
	"regionc/region"
	"regionc/report"
)

// maxCallDepth is the maximum depth of nested function calls.
const maxCallDepth = 256

// Tracer is a tree-walking interpreter for function definitions.  Host values
// are computed directly while operations on IR values are emitted through the
// builder.  A conditional whose condition is an insertion point handle has all
// of its arms executed: the region builder runtime moves the builder between
// the regions of the branch operation as the arms call into it.
type Tracer struct {
	b  *ir.Builder
	rt *region.Runtime

	// The current depth of nested calls.
	depth int

	log *zap.Logger
}

// NewTracer creates a new tracer emitting IR through b.
func NewTracer(b *ir.Builder) *Tracer {
	return &Tracer{b: b, rt: region.NewRuntime(b), log: zap.NewNop()}
}

// SetLogger sets the logger the tracer and its runtime trace to.
func (t *Tracer) SetLogger(log *zap.Logger) {
	t.log = log
	t.rt.SetLogger(log)
}

// Runtime returns the region builder runtime driven by the tracer.
func (t *Tracer) Runtime() *region.Runtime {
	return t.rt
}

// builder returns the tracer's builder or fails if the tracer can only compute
// host values.
func (t *Tracer) builder() (*ir.Builder, error) {
	if t.b == nil {
		return nil, errors.New("IR values cannot be built here")
	}

	return t.b, nil
}

// -----------------------------------------------------------------------------

// returnSignal carries the value of an executed return statement out of the
// blocks containing it.
type returnSignal struct {
	value interface{}
}

// Call calls a function with the given positional arguments.  Parameters not
// given an argument take their default value.  It returns the value the
// function returned: None, a single value, or a tuple.
func (t *Tracer) Call(fn *Function, args ...interface{}) (interface{}, error) {
	if t.depth >= maxCallDepth {
		return nil, fmt.Errorf("maximum call depth exceeded calling `%s`", fn.Name())
	}

	params := fn.Def.Params
	if len(args) > len(params) {
		return nil, fmt.Errorf("`%s` takes %d arguments but %d were given", fn.Name(), len(params), len(args))
	}

	local := NewEnv(fn.Globals)
	for i, param := range params {
		if i < len(args) {
			local.Set(param.Name, args[i])
		} else if v, ok := fn.Defaults[param.Name]; ok {
			local.Set(param.Name, v)
		} else {
			return nil, fmt.Errorf("`%s` is missing an argument for `%s`", fn.Name(), param.Name)
		}
	}

	t.depth++
	defer func() { t.depth-- }()

	ret, err := t.execBlock(local, fn.Def.Body)
	if err != nil {
		return nil, err
	} else if ret != nil {
		return ret.value, nil
	}

	return nil, nil
}

// TraceFunc traces a function into a new `func.func` in mod.  The parameters
// without defaults become the arguments of the function.  The traced function
// returns the IR values the function returns.
func TraceFunc(mod *ir.Module, fn *Function, log *zap.Logger) (*ir.Operation, error) {
	argTypes, err := fn.ArgTypes()
	if err != nil {
		return nil, err
	}

	b := ir.NewBuilder(mod)
	t := NewTracer(b)
	if log != nil {
		t.SetLogger(log.With(zap.String("func", fn.Name())))
	}

	op := b.Func(fn.Name(), argTypes)
	entry := op.Regions[0].Entry()
	b.SetInsertionBlock(entry)

	// Parameters with defaults keep their host values.
	var args []interface{}
	argIndex := 0
	for _, param := range fn.Def.Params {
		if v, ok := fn.Defaults[param.Name]; ok {
			args = append(args, v)
		} else {
			args = append(args, entry.Args[argIndex])
			argIndex++
		}
	}

	ret, err := t.Call(fn, args...)
	if err != nil {
		return op, err
	}

	if err := t.rt.Finish(); err != nil {
		return op, err
	}

	var values []interface{}
	switch v := ret.(type) {
	case nil:
	case Tuple:
		values = v
	default:
		values = []interface{}{v}
	}

	results := make([]*ir.Value, len(values))
	for i, v := range values {
		if results[i], err = t.lift(v, nil); err != nil {
			return op, err
		}
	}

	b.SetInsertionBlock(entry)
	b.Return(results)

	t.log.Debug("traced function", zap.Int("results", len(results)), zap.Int("branches", len(t.rt.Sealed())))
	return op, nil
}

// -----------------------------------------------------------------------------

// execBlock executes the statements of a block.  If a return statement is
// executed, its signal is returned.
func (t *Tracer) execBlock(env *Env, block *ast.Block) (*returnSignal, error) {
	if block == nil {
		return nil, nil
	}

	for _, stmt := range block.Stmts {
		ret, err := t.execStmt(env, stmt)
		if err != nil {
			return nil, report.Wrap(stmt.Span(), err)
		} else if ret != nil {
			return ret, nil
		}
	}

	return nil, nil
}

func (t *Tracer) execStmt(env *Env, stmt ast.ASTNode) (*returnSignal, error) {
	switch v := stmt.(type) {
	case *ast.IfStmt:
		return t.execIf(env, v)
	case *ast.Assignment:
		return nil, t.execAssign(env, v)
	case *ast.ReturnStmt:
		if t.rt != nil && t.rt.Depth() > 0 {
			return nil, errors.New("cannot return from inside a branch region")
		}

		values, err := t.evalList(env, v.Exprs)
		if err != nil {
			return nil, err
		}

		return &returnSignal{value: packValues(values)}, nil
	case *ast.ResultStmt:
		return nil, errors.New("`yield` outside of a lowered conditional")
	case *ast.PassStmt:
		return nil, nil
	case ast.ASTExpr:
		_, err := t.eval(env, v)
		return nil, err
	}

	return nil, fmt.Errorf("cannot execute %T", stmt)
}

// execIf executes a conditional.  A conditional guarded by a handle has every
// arm executed in order.
func (t *Tracer) execIf(env *Env, ifs *ast.IfStmt) (*returnSignal, error) {
	cond, err := t.eval(env, ifs.Cond)
	if err != nil {
		return nil, err
	}

	if _, ok := cond.(*region.Handle); ok {
		if ret, err := t.execBlock(env, ifs.Body); err != nil || ret != nil {
			return ret, err
		}

		return t.execBlock(env, ifs.ElseBranch)
	}

	ok, err := truthy(cond)
	if err != nil {
		return nil, err
	}

	if ok {
		return t.execBlock(env, ifs.Body)
	}

	return t.execBlock(env, ifs.ElseBranch)
}

// execAssign executes an assignment.  A single value assigned to several
// names is destructured.
func (t *Tracer) execAssign(env *Env, assign *ast.Assignment) error {
	values, err := t.evalList(env, assign.Values)
	if err != nil {
		return err
	}

	return bind(env, assign.Targets, packValues(values))
}

// bind binds a value to a list of names.
func bind(env *Env, targets []*ast.Identifier, value interface{}) error {
	if len(targets) == 1 {
		env.Set(targets[0].Name, value)
		return nil
	}

	tuple, ok := value.(Tuple)
	if !ok {
		return fmt.Errorf("cannot unpack %s into %d names", typeName(value), len(targets))
	} else if len(tuple) != len(targets) {
		return fmt.Errorf("cannot unpack %d values into %d names", len(tuple), len(targets))
	}

	for i, target := range targets {
		env.Set(target.Name, tuple[i])
	}

	return nil
}

// packValues converts a list of values into a single value: None, the value
// itself, or a tuple.
func packValues(values []interface{}) interface{} {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	}

	return Tuple(values)
}
