package ir

import "fmt"

// VerifyError is an error found while verifying a module.
type VerifyError struct {
	Op      *Operation
	Message string
}

func (ve *VerifyError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Op.Name, ve.Message)
}

// Verify checks the structural invariants of a module: every region of a
// branch operation is terminated by a yield matching the operation's results,
// every function body is terminated by a return, no result type placeholder
// remains, and every operand is defined before it is used.
func Verify(mod *Module) error {
	v := &verifier{}
	return v.verifyBlock(mod.Body, newScope(nil))
}

// scope is the set of values visible at a point in the module.
type scope struct {
	parent *scope
	values map[*Value]struct{}
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, values: make(map[*Value]struct{})}
}

func (s *scope) visible(v *Value) bool {
	for curr := s; curr != nil; curr = curr.parent {
		if _, ok := curr.values[v]; ok {
			return true
		}
	}

	return false
}

type verifier struct{}

func (v *verifier) verifyBlock(b *Block, sc *scope) error {
	for _, arg := range b.Args {
		if IsPlaceholder(arg.typ) {
			return fmt.Errorf("block argument %d has a placeholder type", arg.Index)
		}

		sc.values[arg] = struct{}{}
	}

	for i, op := range b.Ops {
		for j, operand := range op.Operands {
			if !sc.visible(operand) {
				return &VerifyError{Op: op, Message: fmt.Sprintf("operand %d does not dominate its use", j)}
			}
		}

		for _, result := range op.Results {
			if IsPlaceholder(result.typ) {
				return &VerifyError{Op: op, Message: fmt.Sprintf("result %d has an unresolved placeholder type", result.Index)}
			}
		}

		if IsTerminator(op.Name) && i != len(b.Ops)-1 {
			return &VerifyError{Op: op, Message: "terminator must be the last operation of its block"}
		}

		if err := v.verifyOp(op, sc); err != nil {
			return err
		}

		for _, result := range op.Results {
			sc.values[result] = struct{}{}
		}
	}

	return nil
}

func (v *verifier) verifyOp(op *Operation, sc *scope) error {
	switch op.Name {
	case OpFunc:
		// Functions are isolated from the values defined around them.
		body := op.Regions[0].Entry()
		if err := v.verifyBlock(body, newScope(nil)); err != nil {
			return err
		}

		if term := body.Terminator(); term == nil || term.Name != OpReturn {
			return &VerifyError{Op: op, Message: "function body must end with " + OpReturn}
		}
	case OpIf:
		if op.Operands[0].typ != I1 {
			return &VerifyError{Op: op, Message: "condition must be i1"}
		}

		if len(op.Results) > 0 && len(op.Regions) < 2 {
			return &VerifyError{Op: op, Message: "an operation with results must have an else region"}
		}

		for i, region := range op.Regions {
			body := region.Entry()
			if err := v.verifyBlock(body, newScope(sc)); err != nil {
				return err
			}

			term := body.Terminator()
			if term == nil || term.Name != OpYield {
				return &VerifyError{Op: op, Message: fmt.Sprintf("region %d must end with %s", i, OpYield)}
			}

			if len(term.Operands) != len(op.Results) {
				return &VerifyError{
					Op:      op,
					Message: fmt.Sprintf("region %d yields %d values but %d are expected", i, len(term.Operands), len(op.Results)),
				}
			}

			for j, operand := range term.Operands {
				if operand.typ != op.Results[j].typ {
					return &VerifyError{
						Op:      op,
						Message: fmt.Sprintf("region %d yields %s for result %d of type %s", i, operand.typ.Repr(), j, op.Results[j].typ.Repr()),
					}
				}
			}
		}
	default:
		for _, region := range op.Regions {
			for _, b := range region.Blocks {
				if err := v.verifyBlock(b, newScope(sc)); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
