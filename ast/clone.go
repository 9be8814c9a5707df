package ast

// Clone returns a deep copy of the function definition.  Spans are shared
// since they are never mutated.
func Clone(fd *FuncDef) *FuncDef {
	params := make([]*Param, len(fd.Params))
	for i, param := range fd.Params {
		params[i] = &Param{
			ASTBase:   param.ASTBase,
			Name:      param.Name,
			TypeLabel: param.TypeLabel,
			Default:   CloneExpr(param.Default),
		}
	}

	return &FuncDef{
		ASTBase: fd.ASTBase,
		Name:    fd.Name,
		Params:  params,
		Body:    CloneBlock(fd.Body),
	}
}

// CloneBlock returns a deep copy of a block.
func CloneBlock(block *Block) *Block {
	if block == nil {
		return nil
	}

	stmts := make([]ASTNode, len(block.Stmts))
	for i, stmt := range block.Stmts {
		stmts[i] = cloneStmt(stmt)
	}

	return &Block{ASTBase: block.ASTBase, Stmts: stmts}
}

// cloneStmt returns a deep copy of a statement.
func cloneStmt(stmt ASTNode) ASTNode {
	switch v := stmt.(type) {
	case *IfStmt:
		return &IfStmt{
			ASTBase:    v.ASTBase,
			Cond:       CloneExpr(v.Cond),
			Body:       CloneBlock(v.Body),
			ElseBranch: CloneBlock(v.ElseBranch),
			Chained:    v.Chained,
		}
	case *ResultStmt:
		return &ResultStmt{
			ASTBase:  v.ASTBase,
			Targets:  cloneIdents(v.Targets),
			Operands: cloneExprs(v.Operands),
		}
	case *Assignment:
		return &Assignment{
			ASTBase: v.ASTBase,
			Targets: cloneIdents(v.Targets),
			Values:  cloneExprs(v.Values),
		}
	case *ReturnStmt:
		return &ReturnStmt{ASTBase: v.ASTBase, Exprs: cloneExprs(v.Exprs)}
	case *PassStmt:
		return &PassStmt{ASTBase: v.ASTBase}
	case ASTExpr:
		return CloneExpr(v)
	}

	return stmt
}

// CloneExpr returns a deep copy of an expression.  A nil expression is
// returned as nil.
func CloneExpr(expr ASTExpr) ASTExpr {
	switch v := expr.(type) {
	case nil:
		return nil
	case *Identifier:
		return &Identifier{ExprBase: v.ExprBase, Name: v.Name}
	case *Literal:
		return &Literal{ExprBase: v.ExprBase, Kind: v.Kind, Value: v.Value}
	case *Call:
		return &Call{ExprBase: v.ExprBase, Func: CloneExpr(v.Func), Args: cloneExprs(v.Args)}
	case *BinaryOp:
		return &BinaryOp{ExprBase: v.ExprBase, Op: v.Op, Lhs: CloneExpr(v.Lhs), Rhs: CloneExpr(v.Rhs)}
	case *UnaryOp:
		return &UnaryOp{ExprBase: v.ExprBase, Op: v.Op, Operand: CloneExpr(v.Operand)}
	case *Tuple:
		return &Tuple{ExprBase: v.ExprBase, Exprs: cloneExprs(v.Exprs)}
	case *NamedExpr:
		return &NamedExpr{
			ExprBase: v.ExprBase,
			Target:   &Identifier{ExprBase: v.Target.ExprBase, Name: v.Target.Name},
			Value:    CloneExpr(v.Value),
		}
	}

	return expr
}

func cloneExprs(exprs []ASTExpr) []ASTExpr {
	if exprs == nil {
		return nil
	}

	cloned := make([]ASTExpr, len(exprs))
	for i, expr := range exprs {
		cloned[i] = CloneExpr(expr)
	}

	return cloned
}

func cloneIdents(idents []*Identifier) []*Identifier {
	if idents == nil {
		return nil
	}

	cloned := make([]*Identifier, len(idents))
	for i, ident := range idents {
		cloned[i] = &Identifier{ExprBase: ident.ExprBase, Name: ident.Name}
	}

	return cloned
}
