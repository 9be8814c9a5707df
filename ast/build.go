package ast

import "regionc/report"

// NewIdent creates a new identifier node at the given span.
func NewIdent(span *report.TextSpan, name string) *Identifier {
	return &Identifier{ExprBase: NewExprBase(span), Name: name}
}

// NewCall creates a call to the named function at the given span.
func NewCall(span *report.TextSpan, name string, args ...ASTExpr) *Call {
	return &Call{
		ExprBase: NewExprBase(span),
		Func:     NewIdent(span, name),
		Args:     args,
	}
}

// NewAssign creates a single-target assignment at the given span.
func NewAssign(span *report.TextSpan, target string, value ASTExpr) *Assignment {
	return &Assignment{
		ASTBase: NewASTBaseOn(span),
		Targets: []*Identifier{NewIdent(span, target)},
		Values:  []ASTExpr{value},
	}
}

// NewIntLit creates an integer literal at the given span.
func NewIntLit(span *report.TextSpan, value string) *Literal {
	return &Literal{ExprBase: NewExprBase(span), Kind: LIT_INT, Value: value}
}

// NewTuple creates a tuple at the given span.
func NewTuple(span *report.TextSpan, exprs ...ASTExpr) *Tuple {
	return &Tuple{ExprBase: NewExprBase(span), Exprs: exprs}
}
