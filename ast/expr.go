package ast

import "regionc/report"

// ASTExpr is the interface for all expression nodes.
type ASTExpr interface {
	ASTNode

	exprNode()
}

// ExprBase is the base struct for all expressions.
type ExprBase struct {
	ASTBase
}

// NewExprBase creates a new expression base with the given span.
func NewExprBase(span *report.TextSpan) ExprBase {
	return ExprBase{ASTBase: NewASTBaseOn(span)}
}

func (ExprBase) exprNode() {}

// -----------------------------------------------------------------------------

// Enumeration of operator kinds.
const (
	OP_ADD = iota
	OP_SUB
	OP_MUL
	OP_DIV
	OP_MOD

	OP_EQ
	OP_NEQ
	OP_LT
	OP_GT
	OP_LTEQ
	OP_GTEQ

	OP_AND
	OP_OR
	OP_NOT

	OP_NEG
)

// Oper is an operator used in the AST.
type Oper struct {
	// Kind must be one of the enumerated operator kinds.
	Kind int

	// Name is the source spelling of the operator: eg. `<=` or `and`.
	Name string

	Span *report.TextSpan
}

// IsComparison returns whether the operator is a comparison operator.
func (op Oper) IsComparison() bool {
	return OP_EQ <= op.Kind && op.Kind <= OP_GTEQ
}

// BinaryOp represents a binary operator application.
type BinaryOp struct {
	ExprBase

	Op Oper

	Lhs, Rhs ASTExpr
}

// UnaryOp represents a unary operator application.
type UnaryOp struct {
	ExprBase

	Op Oper

	Operand ASTExpr
}

// -----------------------------------------------------------------------------

// Call is a function call expression.
type Call struct {
	ExprBase

	Func ASTExpr
	Args []ASTExpr
}

// Callee returns the name of the function being called if it is called by name.
func (c *Call) Callee() (string, bool) {
	if id, ok := c.Func.(*Identifier); ok {
		return id.Name, true
	}

	return "", false
}

// NamedExpr is an assignment expression: `name := value`.  It evaluates to the
// value and binds it to the name.
type NamedExpr struct {
	ExprBase

	Target *Identifier
	Value  ASTExpr
}

// Tuple represents an n-tuple of elements.
type Tuple struct {
	ExprBase

	Exprs []ASTExpr
}

// -----------------------------------------------------------------------------

// Identifier represents a named value.
type Identifier struct {
	ExprBase

	Name string
}

// Enumeration of literal kinds.
const (
	LIT_INT = iota
	LIT_FLOAT
	LIT_BOOL
	LIT_STRING
	LIT_NONE
)

// Literal represents a single literal value.
type Literal struct {
	ExprBase

	// Kind must be one of the enumerated literal kinds.
	Kind int

	// Value is the source text of the literal.  String literals have their
	// quotes trimmed off.
	Value string
}
