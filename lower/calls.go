package lower

import (
	"regionc/ast"
	"regionc/report"
)

// Names of the runtime builtins the passes emit calls to.
const (
	fnYield       = "yield_"
	fnOpenBranch  = "open_branch"
	fnOpenElseIf  = "open_else_if"
	fnEnterElse   = "enter_else"
	fnCloseBranch = "close_branch"
	fnPlaceholder = "placeholder"
)

// callTo returns the call if expr is a call to the named function.
func callTo(expr ast.ASTExpr, name string) (*ast.Call, bool) {
	call, ok := expr.(*ast.Call)
	if !ok {
		return nil, false
	}

	if callee, ok := call.Callee(); ok && callee == name {
		return call, true
	}

	return nil, false
}

// stmtCall returns the call made by a statement if the statement is a call to
// the named function, either on its own or as the value of an assignment.
func stmtCall(stmt ast.ASTNode, name string) (*ast.Call, bool) {
	switch v := stmt.(type) {
	case *ast.Assignment:
		if len(v.Values) == 1 {
			return callTo(v.Values[0], name)
		}
	case ast.ASTExpr:
		return callTo(v, name)
	}

	return nil, false
}

// resultArity returns the number of operands of a result statement.  Both
// `yield` statements and calls to the yield builtin are result statements.
func resultArity(stmt ast.ASTNode) (int, bool) {
	if res, ok := stmt.(*ast.ResultStmt); ok {
		return len(res.Operands), true
	}

	if call, ok := stmtCall(stmt, fnYield); ok {
		return len(call.Args), true
	}

	return 0, false
}

// isTransition returns whether a statement is a call to one of the handle
// transitions the passes insert around result statements.
func isTransition(stmt ast.ASTNode) bool {
	_, closes := stmtCall(stmt, fnCloseBranch)
	_, enters := stmtCall(stmt, fnEnterElse)
	return closes || enters
}

// trailingResult returns the arity of the result statement ending an arm.  The
// transitions inserted after the result are skipped.
func trailingResult(arm *ast.Block) (int, bool) {
	if arm == nil {
		return 0, false
	}

	for i := len(arm.Stmts) - 1; i >= 0; i-- {
		if isTransition(arm.Stmts[i]) {
			continue
		}

		return resultArity(arm.Stmts[i])
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// handleOf returns the name of the handle a conditional's condition binds if
// the condition has been rewritten.
func handleOf(ifs *ast.IfStmt) (string, bool) {
	named, ok := ifs.Cond.(*ast.NamedExpr)
	if !ok {
		return "", false
	}

	if _, ok := callTo(named.Value, fnOpenBranch); ok {
		return named.Target.Name, true
	} else if _, ok := callTo(named.Value, fnOpenElseIf); ok {
		return named.Target.Name, true
	}

	return "", false
}

// regionCount returns the number of regions a conditional lowers to.
func regionCount(ifs *ast.IfStmt) int {
	if ifs.ElseBranch == nil {
		return 1
	}

	return 2
}

// shapeOf builds the result shape tuple of a conditional: a placeholder for
// every operand of the result ending its first arm.
func shapeOf(ifs *ast.IfStmt) *ast.Tuple {
	span := ifs.Cond.Span()
	k, _ := trailingResult(ifs.Body)

	elems := make([]ast.ASTExpr, k)
	for i := range elems {
		elems[i] = ast.NewCall(span, fnPlaceholder)
	}

	return ast.NewTuple(span, elems...)
}

// bindHandle makes a condition binding a handle to the given value.
func bindHandle(span *report.TextSpan, handle string, value ast.ASTExpr) *ast.NamedExpr {
	return &ast.NamedExpr{
		ExprBase: ast.NewExprBase(span),
		Target:   ast.NewIdent(span, handle),
		Value:    value,
	}
}

// transition makes the statement `handle = fn(handle)`.
func transition(span *report.TextSpan, fn, handle string) *ast.Assignment {
	return ast.NewAssign(span, handle, ast.NewCall(span, fn, ast.NewIdent(span, handle)))
}

// isTransitionOf returns whether stmt is the statement `handle = fn(handle)`.
func isTransitionOf(stmt ast.ASTNode, fn, handle string) bool {
	assign, ok := stmt.(*ast.Assignment)
	if !ok || len(assign.Targets) != 1 || assign.Targets[0].Name != handle {
		return false
	}

	call, ok := stmtCall(assign, fn)
	if !ok || len(call.Args) != 1 {
		return false
	}

	arg, ok := call.Args[0].(*ast.Identifier)
	return ok && arg.Name == handle
}

// armSpan returns a span to attribute statements inserted at the end of an
// arm to.
func armSpan(ifs *ast.IfStmt, arm *ast.Block) *report.TextSpan {
	if last := arm.Last(); last != nil {
		return last.Span()
	} else if arm.Span() != nil {
		return arm.Span()
	}

	return ifs.Span()
}
