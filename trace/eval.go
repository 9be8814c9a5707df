package trace

import (
	"fmt"
	"math"
	"strconv"

	"regionc/ast"
	"regionc/ir"
)

// eval evaluates an expression.
func (t *Tracer) eval(env *Env, expr ast.ASTExpr) (interface{}, error) {
	switch v := expr.(type) {
	case *ast.Identifier:
		if value, ok := env.Lookup(v.Name); ok {
			return value, nil
		}

		return nil, fmt.Errorf("undefined name `%s`", v.Name)
	case *ast.Literal:
		return evalLiteral(v)
	case *ast.NamedExpr:
		value, err := t.eval(env, v.Value)
		if err != nil {
			return nil, err
		}

		env.Set(v.Target.Name, value)
		return value, nil
	case *ast.Tuple:
		values, err := t.evalList(env, v.Exprs)
		if err != nil {
			return nil, err
		}

		return Tuple(values), nil
	case *ast.Call:
		return t.evalCall(env, v)
	case *ast.BinaryOp:
		return t.evalBinaryOp(env, v)
	case *ast.UnaryOp:
		return t.evalUnaryOp(env, v)
	}

	return nil, fmt.Errorf("cannot evaluate %T", expr)
}

// evalList evaluates a list of expressions in order.
func (t *Tracer) evalList(env *Env, exprs []ast.ASTExpr) ([]interface{}, error) {
	values := make([]interface{}, len(exprs))
	for i, expr := range exprs {
		value, err := t.eval(env, expr)
		if err != nil {
			return nil, err
		}

		values[i] = value
	}

	return values, nil
}

func evalLiteral(lit *ast.Literal) (interface{}, error) {
	switch lit.Kind {
	case ast.LIT_INT:
		return strconv.ParseInt(lit.Value, 10, 64)
	case ast.LIT_FLOAT:
		return strconv.ParseFloat(lit.Value, 64)
	case ast.LIT_BOOL:
		return lit.Value == "True", nil
	case ast.LIT_STRING:
		return lit.Value, nil
	}

	return nil, nil
}

func (t *Tracer) evalCall(env *Env, call *ast.Call) (interface{}, error) {
	callee, err := t.eval(env, call.Func)
	if err != nil {
		return nil, err
	}

	args, err := t.evalList(env, call.Args)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *Builtin:
		value, err := fn.Fn(t, args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name, err)
		}

		return value, nil
	case *Function:
		return t.Call(fn, args...)
	}

	return nil, fmt.Errorf("%s is not callable", typeName(callee))
}

// -----------------------------------------------------------------------------

// isIR returns whether a value is an IR value.
func isIR(v interface{}) bool {
	_, ok := v.(*ir.Value)
	return ok
}

// lift converts a host value into an IR constant.  Integers are lifted to
// floats if the hint is a float type.  IR values are returned as is.
func (t *Tracer) lift(v interface{}, hint ir.Type) (*ir.Value, error) {
	if value, ok := v.(*ir.Value); ok {
		return value, nil
	}

	b, err := t.builder()
	if err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case bool:
		return b.ConstantBool(x), nil
	case int64:
		if hint == ir.F64 {
			return b.ConstantFloat(float64(x)), nil
		}

		return b.ConstantInt(x), nil
	case float64:
		return b.ConstantFloat(x), nil
	}

	return nil, fmt.Errorf("cannot convert %s to an IR value", typeName(v))
}

// liftPair lifts two operands of which at least one is an IR value.
func (t *Tracer) liftPair(lhs, rhs interface{}) (*ir.Value, *ir.Value, error) {
	var hint ir.Type
	if v, ok := lhs.(*ir.Value); ok {
		hint = v.Type()
	} else if v, ok := rhs.(*ir.Value); ok {
		hint = v.Type()
	}

	l, err := t.lift(lhs, hint)
	if err != nil {
		return nil, nil, err
	}

	r, err := t.lift(rhs, hint)
	if err != nil {
		return nil, nil, err
	}

	return l, r, nil
}

// -----------------------------------------------------------------------------

// compareKinds maps comparison operators to IR comparison kinds.
var compareKinds = map[int]int{
	ast.OP_EQ:   ir.CmpEQ,
	ast.OP_NEQ:  ir.CmpNE,
	ast.OP_LT:   ir.CmpLT,
	ast.OP_LTEQ: ir.CmpLE,
	ast.OP_GT:   ir.CmpGT,
	ast.OP_GTEQ: ir.CmpGE,
}

// binaryKinds maps arithmetic and logical operators to IR binary kinds.
var binaryKinds = map[int]int{
	ast.OP_ADD: ir.BinAdd,
	ast.OP_SUB: ir.BinSub,
	ast.OP_MUL: ir.BinMul,
	ast.OP_DIV: ir.BinDiv,
	ast.OP_MOD: ir.BinRem,
	ast.OP_AND: ir.BinAnd,
	ast.OP_OR:  ir.BinOr,
}

func (t *Tracer) evalBinaryOp(env *Env, bop *ast.BinaryOp) (interface{}, error) {
	lhs, err := t.eval(env, bop.Lhs)
	if err != nil {
		return nil, err
	}

	// Logical operators short-circuit on host values.
	if !isIR(lhs) && (bop.Op.Kind == ast.OP_AND || bop.Op.Kind == ast.OP_OR) {
		ok, err := truthy(lhs)
		if err != nil {
			return nil, err
		}

		if ok == (bop.Op.Kind == ast.OP_OR) {
			return lhs, nil
		}

		return t.eval(env, bop.Rhs)
	}

	rhs, err := t.eval(env, bop.Rhs)
	if err != nil {
		return nil, err
	}

	if !isIR(lhs) && !isIR(rhs) {
		return hostBinaryOp(bop.Op, lhs, rhs)
	}

	l, r, err := t.liftPair(lhs, rhs)
	if err != nil {
		return nil, err
	}

	b, err := t.builder()
	if err != nil {
		return nil, err
	}

	if kind, ok := compareKinds[bop.Op.Kind]; ok {
		return b.Compare(kind, l, r)
	}

	if (bop.Op.Kind == ast.OP_AND || bop.Op.Kind == ast.OP_OR) && (l.Type() != ir.I1 || r.Type() != ir.I1) {
		return nil, fmt.Errorf("operands of `%s` must be i1", bop.Op.Name)
	}

	return b.Binary(binaryKinds[bop.Op.Kind], l, r)
}

func (t *Tracer) evalUnaryOp(env *Env, uop *ast.UnaryOp) (interface{}, error) {
	operand, err := t.eval(env, uop.Operand)
	if err != nil {
		return nil, err
	}

	if value, ok := operand.(*ir.Value); ok {
		b, err := t.builder()
		if err != nil {
			return nil, err
		}

		if uop.Op.Kind == ast.OP_NOT {
			if value.Type() != ir.I1 {
				return nil, fmt.Errorf("operand of `not` must be i1")
			}

			return b.Binary(ir.BinXor, value, b.ConstantBool(true))
		}

		zero, err := t.lift(int64(0), value.Type())
		if err != nil {
			return nil, err
		}

		return b.Binary(ir.BinSub, zero, value)
	}

	if uop.Op.Kind == ast.OP_NOT {
		ok, err := truthy(operand)
		return !ok, err
	}

	switch x := operand.(type) {
	case int64:
		return -x, nil
	case float64:
		return -x, nil
	}

	return nil, fmt.Errorf("bad operand type for unary -: %s", typeName(operand))
}

// hostBinaryOp applies a binary operator to two host values.  Integers are
// promoted to floats when mixed with floats.
func hostBinaryOp(op ast.Oper, lhs, rhs interface{}) (interface{}, error) {
	if op.Kind == ast.OP_AND || op.Kind == ast.OP_OR {
		// Only reachable when the left operand did not short-circuit.
		return rhs, nil
	}

	switch op.Kind {
	case ast.OP_EQ:
		return hostEqual(lhs, rhs), nil
	case ast.OP_NEQ:
		return !hostEqual(lhs, rhs), nil
	}

	if l, ok := lhs.(int64); ok {
		if r, ok := rhs.(int64); ok {
			return intBinaryOp(op, l, r)
		}
	}

	l, lok := toFloat(lhs)
	r, rok := toFloat(rhs)
	if !lok || !rok {
		if s, ok := lhs.(string); ok && op.Kind == ast.OP_ADD {
			if r, ok := rhs.(string); ok {
				return s + r, nil
			}
		}

		return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op.Name, typeName(lhs), typeName(rhs))
	}

	return floatBinaryOp(op, l, r)
}

func intBinaryOp(op ast.Oper, l, r int64) (interface{}, error) {
	switch op.Kind {
	case ast.OP_ADD:
		return l + r, nil
	case ast.OP_SUB:
		return l - r, nil
	case ast.OP_MUL:
		return l * r, nil
	case ast.OP_DIV:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}

		// Division truncates toward zero like `arith.divsi`.
		return l / r, nil
	case ast.OP_MOD:
		if r == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}

		// The result takes the sign of the dividend like `arith.remsi`.
		return l % r, nil
	case ast.OP_LT:
		return l < r, nil
	case ast.OP_LTEQ:
		return l <= r, nil
	case ast.OP_GT:
		return l > r, nil
	default: // OP_GTEQ
		return l >= r, nil
	}
}

func floatBinaryOp(op ast.Oper, l, r float64) (interface{}, error) {
	switch op.Kind {
	case ast.OP_ADD:
		return l + r, nil
	case ast.OP_SUB:
		return l - r, nil
	case ast.OP_MUL:
		return l * r, nil
	case ast.OP_DIV:
		if r == 0 {
			return nil, fmt.Errorf("division by zero")
		}

		return l / r, nil
	case ast.OP_MOD:
		if r == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}

		return math.Mod(l, r), nil
	case ast.OP_LT:
		return l < r, nil
	case ast.OP_LTEQ:
		return l <= r, nil
	case ast.OP_GT:
		return l > r, nil
	default: // OP_GTEQ
		return l >= r, nil
	}
}

// toFloat converts a numeric host value to a float.  Booleans are numeric.
func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}

		return 0, true
	}

	return 0, false
}

// hostEqual compares two host values for equality.  Numbers compare by value.
func hostEqual(lhs, rhs interface{}) bool {
	if l, ok := toFloat(lhs); ok {
		if r, ok := toFloat(rhs); ok {
			return l == r
		}
	}

	switch l := lhs.(type) {
	case string:
		r, ok := rhs.(string)
		return ok && l == r
	case nil:
		return rhs == nil
	case Tuple:
		r, ok := rhs.(Tuple)
		if !ok || len(l) != len(r) {
			return false
		}

		for i := range l {
			if !hostEqual(l[i], r[i]) {
				return false
			}
		}

		return true
	}

	if _, ok := rhs.(Tuple); ok {
		return false
	}

	return lhs == rhs
}
