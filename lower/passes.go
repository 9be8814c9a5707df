package lower

import (
	"strconv"

	"go.uber.org/zap"

	"regionc/ast"
)

// InsertImplicitResults appends a bare `yield` to every arm of every
// conditional which does not already end with a result statement.  Inner
// conditionals are handled before the conditionals containing them.  An else
// branch made up of an elif is not an arm of its own.
var InsertImplicitResults Pass = &pass{name: "insert-implicit-results", apply: insertImplicitResults}

func insertImplicitResults(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	err := ast.WalkIfs(fn.Body, func(ifs *ast.IfStmt) error {
		for _, arm := range ownArms(ifs) {
			if _, ok := trailingResult(arm); ok {
				continue
			}

			arm.Stmts = append(arm.Stmts, &ast.ResultStmt{
				ASTBase: ast.NewASTBaseOn(armSpan(ifs, arm)),
			})
		}

		return nil
	})

	return fn, err
}

// ownArms returns the arms belonging directly to a conditional: its body and
// its else branch unless the else branch is an elif.
func ownArms(ifs *ast.IfStmt) []*ast.Block {
	arms := []*ast.Block{ifs.Body}

	if _, ok := ifs.ChainedElse(); !ok && ifs.ElseBranch != nil {
		arms = append(arms, ifs.ElseBranch)
	}

	return arms
}

// -----------------------------------------------------------------------------

// RewriteResults replaces every result statement `[t... =] yield e...` with a
// call to the yield builtin `[t... =] yield_(e...)`.
var RewriteResults Pass = &pass{name: "rewrite-results", apply: rewriteResults}

func rewriteResults(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	ast.WalkBlocks(fn.Body, func(b *ast.Block) {
		for i, stmt := range b.Stmts {
			res, ok := stmt.(*ast.ResultStmt)
			if !ok {
				continue
			}

			call := ast.NewCall(res.Span(), fnYield, res.Operands...)
			if len(res.Targets) == 0 {
				b.Stmts[i] = call
			} else {
				b.Stmts[i] = &ast.Assignment{
					ASTBase: res.ASTBase,
					Targets: res.Targets,
					Values:  []ast.ASTExpr{call},
				}
			}
		}
	})

	return fn, nil
}

// -----------------------------------------------------------------------------

// LinkElifChains rewrites the condition of every elif into a call opening a
// branch operation inside the else region of the conditional it continues:
// `h := open_else_if(parent, cond, shape, regions)`.  The head of each chain
// has a handle name reserved for it which the condition rewriting pass uses.
// Chains are linked from the head down so an elif chain of N elifs becomes
// N+1 nested branch operations.
var LinkElifChains Pass = &pass{name: "link-elif-chains", apply: linkElifChains}

func linkElifChains(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	for _, head := range ast.ChainHeads(fn.Body) {
		if _, ok := head.ChainedElse(); ok {
			linkChain(head, reserveHandle(head, ctx), ctx)
		}
	}

	return fn, nil
}

// reserveHandle returns the handle name of a chain head, binding its condition
// to a fresh name if it has not been named yet.
func reserveHandle(head *ast.IfStmt, ctx *Context) string {
	if named, ok := head.Cond.(*ast.NamedExpr); ok && isHandleName(named.Target.Name, ctx) {
		return named.Target.Name
	}

	name := ctx.Fresh()
	head.Cond = bindHandle(head.Cond.Span(), name, head.Cond)
	return name
}

// isHandleName returns whether name was minted for a handle.
func isHandleName(name string, ctx *Context) bool {
	return ctx.namer.Minted(name)
}

// linkChain links every elif following the conditional with the given handle.
func linkChain(parent *ast.IfStmt, handle string, ctx *Context) {
	for curr, h := parent, handle; ; {
		next, ok := curr.ChainedElse()
		if !ok {
			return
		}

		if name, ok := handleOf(next); ok {
			curr, h = next, name
			continue
		}

		name := ctx.Fresh()
		span := next.Cond.Span()
		next.Cond = bindHandle(span, name, ast.NewCall(
			span,
			fnOpenElseIf,
			ast.NewIdent(span, h),
			next.Cond,
			shapeOf(next),
			ast.NewIntLit(span, strconv.Itoa(regionCount(next))),
		))

		ctx.log.Debug("linked elif", zap.String("parent", h), zap.String("handle", name))
		curr, h = next, name
	}
}

// -----------------------------------------------------------------------------

// RewriteConditions rewrites the condition of every chain head into a call
// opening a branch operation: `h := open_branch(cond, shape, regions)`.  The
// shape has a placeholder for each operand of the result ending the first arm.
// Conditions already rewritten are left alone.  Elifs not yet linked are
// linked.
var RewriteConditions Pass = &pass{name: "rewrite-conditions", apply: rewriteConditions}

func rewriteConditions(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	for _, head := range ast.ChainHeads(fn.Body) {
		name, ok := handleOf(head)
		if !ok {
			var cond ast.ASTExpr
			if named, ok := head.Cond.(*ast.NamedExpr); ok && isHandleName(named.Target.Name, ctx) {
				name, cond = named.Target.Name, named.Value
			} else {
				name, cond = ctx.Fresh(), head.Cond
			}

			span := head.Cond.Span()
			head.Cond = bindHandle(span, name, ast.NewCall(
				span,
				fnOpenBranch,
				cond,
				shapeOf(head),
				ast.NewIntLit(span, strconv.Itoa(regionCount(head))),
			))
		}

		linkChain(head, name, ctx)
	}

	return fn, nil
}

// -----------------------------------------------------------------------------

// InsertCloses appends `h = close_branch(h)` to every arm of every rewritten
// conditional.  An else branch made up of an elif gets no close: the elif
// closes its parent when it is sealed.
var InsertCloses Pass = &pass{name: "insert-closes", apply: insertCloses}

func insertCloses(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	err := ast.WalkIfs(fn.Body, func(ifs *ast.IfStmt) error {
		handle, ok := handleOf(ifs)
		if !ok {
			return nil
		}

		for _, arm := range ownArms(ifs) {
			if last := arm.Last(); last != nil && isTransitionOf(last, fnCloseBranch, handle) {
				continue
			}

			arm.Stmts = append(arm.Stmts, transition(armSpan(ifs, arm), fnCloseBranch, handle))
		}

		return nil
	})

	return fn, err
}

// -----------------------------------------------------------------------------

// InsertElseEntries prepends `h = enter_else(h)` to the else branch of every
// rewritten conditional unless the else branch is an elif.
var InsertElseEntries Pass = &pass{name: "insert-else-entries", apply: insertElseEntries}

func insertElseEntries(fn *ast.FuncDef, ctx *Context) (*ast.FuncDef, error) {
	err := ast.WalkIfs(fn.Body, func(ifs *ast.IfStmt) error {
		handle, ok := handleOf(ifs)
		if !ok || ifs.ElseBranch == nil {
			return nil
		}

		if _, ok := ifs.ChainedElse(); ok {
			return nil
		}

		arm := ifs.ElseBranch
		if len(arm.Stmts) > 0 && isTransitionOf(arm.Stmts[0], fnEnterElse, handle) {
			return nil
		}

		span := ifs.Span()
		if len(arm.Stmts) > 0 {
			span = arm.Stmts[0].Span()
		}

		arm.Stmts = append([]ast.ASTNode{transition(span, fnEnterElse, handle)}, arm.Stmts...)
		return nil
	})

	return fn, err
}
