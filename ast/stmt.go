package ast

// Block represents a list of AST statements.
type Block struct {
	ASTBase

	// The statements of the block.  Expressions may appear directly as
	// statements.
	Stmts []ASTNode
}

// Last returns the last statement of the block or nil if the block is empty.
func (b *Block) Last() ASTNode {
	if b == nil || len(b.Stmts) == 0 {
		return nil
	}

	return b.Stmts[len(b.Stmts)-1]
}

// -----------------------------------------------------------------------------

// IfStmt represents a single binary conditional: a condition, the body run when
// it holds, and an optional else branch.  `elif` is not a distinct node: an
// `elif` arm is an IfStmt marked as chained which is the only statement of its
// parent's else branch.
type IfStmt struct {
	ASTBase

	// The condition of the conditional.
	Cond ASTExpr

	// The body of the conditional.
	Body *Block

	// The (optional) else branch of the conditional.
	ElseBranch *Block

	// Whether this conditional continues the chain of the conditional whose
	// else branch contains it: ie. it was written as `elif`.
	Chained bool
}

// ChainedElse returns the chained conditional making up the else branch of the
// conditional if the else branch is an `elif` arm.
func (ifs *IfStmt) ChainedElse() (*IfStmt, bool) {
	if ifs.ElseBranch == nil || len(ifs.ElseBranch.Stmts) != 1 {
		return nil, false
	}

	if inner, ok := ifs.ElseBranch.Stmts[0].(*IfStmt); ok && inner.Chained {
		return inner, true
	}

	return nil, false
}

// Arms returns the bodies of all the arms of the logical chain beginning at
// this conditional in order: the body of every conditional in the chain
// followed by the final else branch if there is one.
func (ifs *IfStmt) Arms() []*Block {
	var arms []*Block
	for curr := ifs; ; {
		arms = append(arms, curr.Body)

		if next, ok := curr.ChainedElse(); ok {
			curr = next
		} else {
			if curr.ElseBranch != nil {
				arms = append(arms, curr.ElseBranch)
			}

			return arms
		}
	}
}

// ResultStmt is a branch-local result statement: `yield a, b`, optionally
// destructured into names: `x, y = yield a, b`.
type ResultStmt struct {
	ASTBase

	// The names the results are bound to.  This may be empty.
	Targets []*Identifier

	// The operands carried out of the enclosing region.
	Operands []ASTExpr
}

// Assignment represents an assignment statement: `a, b = c`.
type Assignment struct {
	ASTBase

	// The names being assigned to.
	Targets []*Identifier

	// The values being assigned.  More than one value denotes an implicit
	// tuple.
	Values []ASTExpr
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	ASTBase

	// The expressions being returned.
	Exprs []ASTExpr
}

// PassStmt represents the empty statement `pass`.
type PassStmt struct {
	ASTBase
}
