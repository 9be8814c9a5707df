package trace

import (
	"fmt"
	"strconv"
	"strings"

	"regionc/ir"
	"regionc/region"
)

// Tuple is a host tuple value.
type Tuple []interface{}

// Builtin is a function implemented by the tracer.
type Builtin struct {
	Name string
	Fn   func(t *Tracer, args []interface{}) (interface{}, error)
}

// truthy returns the truth value of a host value.
func truthy(v interface{}) (bool, error) {
	switch x := v.(type) {
	case nil:
		return false, nil
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case string:
		return x != "", nil
	case Tuple:
		return len(x) > 0, nil
	case *region.Handle:
		return x.Truthy(), nil
	case *ir.Value:
		return false, fmt.Errorf("the truth value of an IR value is unknown until runtime: the conditional must be lowered")
	}

	return true, nil
}

// repr returns the printed form of a value.
func repr(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}

		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case Tuple:
		elems := make([]string, len(x))
		for i, elem := range x {
			elems[i] = repr(elem)
		}

		if len(x) == 1 {
			return "(" + elems[0] + ",)"
		}

		return "(" + strings.Join(elems, ", ") + ")"
	case *ir.Value:
		return "<value: " + x.Type().Repr() + ">"
	case ir.Type:
		return "<type: " + x.Repr() + ">"
	case *region.Handle:
		return fmt.Sprintf("<handle: %s region %d>", x.State(), x.Region())
	case *Function:
		return "<function " + x.Name() + ">"
	case *Builtin:
		return "<builtin " + x.Name + ">"
	}

	return fmt.Sprint(v)
}

// typeName returns a short name for the kind of a value for error messages.
func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "None"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case Tuple:
		return "tuple"
	case *ir.Value:
		return "value"
	case ir.Type:
		return "type"
	case *region.Handle:
		return "handle"
	case *Function, *Builtin:
		return "function"
	}

	return fmt.Sprintf("%T", v)
}
