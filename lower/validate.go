package lower

import (
	"fmt"

	"regionc/ast"
	"regionc/report"
)

// StructuralMismatch is raised when the conditionals and result statements of
// a function cannot be reconciled into branch operations.  It carries the
// number of conditionals, else branches, and result statements of the
// function.
type StructuralMismatch struct {
	Ifs, Elses, Results int

	// The span of the offending statement.
	Span *report.TextSpan

	// Reason describes the specific rule that was broken.
	Reason string
}

func (sm *StructuralMismatch) Error() string {
	msg := fmt.Sprintf(
		"unmatched if/elses and yields: n_ifs=%d n_elses=%d n_yields=%d; line %d",
		sm.Ifs,
		sm.Elses,
		sm.Results,
		sm.Span.Line(),
	)

	if sm.Reason != "" {
		msg += ": " + sm.Reason
	}

	return msg
}

// CheckResults validates the placement of result statements.  It does not
// modify the tree.  The rules are:
//
//  1. A result statement must be the last statement of a conditional arm.
//  2. If any arm of a chain ends in a result with operands, every arm of the
//     chain must end in an explicit result and the chain must have a final
//     else.
//  3. A result bound to names must bind either a single name or one name per
//     operand.
var CheckResults Pass = &pass{name: "check-results", apply: checkResults}

func checkResults(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	v := &validator{}
	v.count(fn.Body)

	if err := v.checkBlock(fn.Body, false); err != nil {
		return nil, err
	}

	for _, head := range ast.ChainHeads(fn.Body) {
		if err := v.checkChain(head); err != nil {
			return nil, err
		}
	}

	return fn, nil
}

// validator checks a single function.
type validator struct {
	ifs, elses, results int
}

// count counts the conditionals, else branches, and result statements in a
// block and all nested blocks.
func (v *validator) count(block *ast.Block) {
	ast.WalkBlocks(block, func(b *ast.Block) {
		for _, stmt := range b.Stmts {
			if ifs, ok := stmt.(*ast.IfStmt); ok {
				v.ifs++

				if ifs.ElseBranch != nil {
					v.elses++
				}
			} else if _, ok := resultArity(stmt); ok {
				v.results++
			}
		}
	})
}

func (v *validator) mismatch(span *report.TextSpan, reason string, args ...interface{}) *StructuralMismatch {
	return &StructuralMismatch{
		Ifs:     v.ifs,
		Elses:   v.elses,
		Results: v.results,
		Span:    span,
		Reason:  fmt.Sprintf(reason, args...),
	}
}

// checkBlock checks the placement and targets of the result statements of a
// block.  inArm indicates whether the block is an arm of a conditional.
func (v *validator) checkBlock(block *ast.Block, inArm bool) error {
	if block == nil {
		return nil
	}

	for i, stmt := range block.Stmts {
		if ifs, ok := stmt.(*ast.IfStmt); ok {
			if err := v.checkBlock(ifs.Body, true); err != nil {
				return err
			}

			if err := v.checkBlock(ifs.ElseBranch, true); err != nil {
				return err
			}

			continue
		}

		res, ok := stmt.(*ast.ResultStmt)
		if !ok {
			continue
		}

		if !inArm {
			return v.mismatch(res.Span(), "`yield` outside of a conditional")
		} else if i != len(block.Stmts)-1 {
			return v.mismatch(res.Span(), "`yield` must be the last statement of its branch")
		}

		if n := len(res.Targets); n > 1 && n != len(res.Operands) {
			return v.mismatch(res.Span(), "cannot bind %d results to %d names", len(res.Operands), n)
		}
	}

	return nil
}

// checkChain checks that the arms of a logical chain agree on whether they
// produce results.
func (v *validator) checkChain(head *ast.IfStmt) error {
	arms := head.Arms()

	yielding := -1
	for i, arm := range arms {
		if k, ok := trailingResult(arm); ok && k > 0 {
			yielding = i
			break
		}
	}

	if yielding < 0 {
		return nil
	}

	// The final arm is an else if the chain's last conditional has one.
	last := head
	for next, ok := last.ChainedElse(); ok; next, ok = last.ChainedElse() {
		last = next
	}

	if last.ElseBranch == nil {
		return v.mismatch(last.Span(), "a conditional producing results must have an else branch")
	}

	for _, arm := range arms {
		if _, ok := trailingResult(arm); !ok {
			return v.mismatch(armSpan(head, arm), "every branch of a conditional producing results must end with `yield`")
		}
	}

	return nil
}
