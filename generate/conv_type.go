package generate

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	rir "regionc/ir"
)

// convType converts a region IR type to its LLVM type.
func convType(typ rir.Type) (types.Type, error) {
	switch typ {
	case rir.I1:
		return types.I1, nil
	case rir.I64:
		return types.I64, nil
	case rir.F64:
		return types.Double, nil
	}

	return nil, fmt.Errorf("type %s has no LLVM representation", typ.Repr())
}

// convReturnType converts the types of the values returned by a function to
// its LLVM return type.  Functions returning several values return a struct.
func convReturnType(typs []rir.Type) (types.Type, error) {
	switch len(typs) {
	case 0:
		return types.Void, nil
	case 1:
		return convType(typs[0])
	}

	fields := make([]types.Type, len(typs))
	for i, typ := range typs {
		llTyp, err := convType(typ)
		if err != nil {
			return nil, err
		}

		fields[i] = llTyp
	}

	return types.NewStruct(fields...), nil
}
