package ast

import (
	"strconv"
	"strings"
)

// indentUnit is the indentation used for each nested block.
const indentUnit = "    "

// Print returns the source text of a function definition.  The output is
// always valid input to the parser and re-parses to an equivalent tree.
func Print(fd *FuncDef) string {
	pr := &printer{}
	pr.printFuncDef(fd)
	return pr.sb.String()
}

// PrintFile returns the source text of a whole file: its global assignments
// followed by its function definitions separated by blank lines.
func PrintFile(f *File) string {
	pr := &printer{}

	for _, assign := range f.Globals {
		pr.printStmt(assign)
	}

	for i, def := range f.Defs {
		if i > 0 || len(f.Globals) > 0 {
			pr.sb.WriteRune('\n')
		}

		pr.printFuncDef(def)
	}

	return pr.sb.String()
}

// PrintExpr returns the source text of an expression.
func PrintExpr(expr ASTExpr) string {
	pr := &printer{}
	pr.printExpr(expr, precLowest)
	return pr.sb.String()
}

// -----------------------------------------------------------------------------

// printer writes source text for AST nodes.
type printer struct {
	sb strings.Builder

	// The current indentation depth.
	depth int
}

func (pr *printer) printFuncDef(fd *FuncDef) {
	pr.sb.WriteString("def ")
	pr.sb.WriteString(fd.Name)
	pr.sb.WriteRune('(')

	for i, param := range fd.Params {
		if i > 0 {
			pr.sb.WriteString(", ")
		}

		pr.sb.WriteString(param.Name)

		if param.TypeLabel != "" {
			pr.sb.WriteString(": ")
			pr.sb.WriteString(param.TypeLabel)

			if param.Default != nil {
				pr.sb.WriteString(" = ")
				pr.printExpr(param.Default, precOr)
			}
		} else if param.Default != nil {
			pr.sb.WriteRune('=')
			pr.printExpr(param.Default, precOr)
		}
	}

	pr.sb.WriteString("):\n")
	pr.printBlock(fd.Body)
}

// printBlock prints the statements of a block one level deeper than the
// current depth.  An empty block is printed as `pass`.
func (pr *printer) printBlock(block *Block) {
	pr.depth++

	if block == nil || len(block.Stmts) == 0 {
		pr.line()
		pr.sb.WriteString("pass\n")
	} else {
		for _, stmt := range block.Stmts {
			pr.printStmt(stmt)
		}
	}

	pr.depth--
}

// line writes the indentation for a new line.
func (pr *printer) line() {
	pr.sb.WriteString(strings.Repeat(indentUnit, pr.depth))
}

func (pr *printer) printStmt(stmt ASTNode) {
	if ifs, ok := stmt.(*IfStmt); ok {
		pr.printIf(ifs, "if ")
		return
	}

	pr.line()

	switch v := stmt.(type) {
	case *ResultStmt:
		if len(v.Targets) > 0 {
			pr.printIdents(v.Targets)
			pr.sb.WriteString(" = ")
		}

		pr.sb.WriteString("yield")

		if len(v.Operands) > 0 {
			pr.sb.WriteRune(' ')
			pr.printExprList(v.Operands)
		}
	case *Assignment:
		pr.printIdents(v.Targets)
		pr.sb.WriteString(" = ")
		pr.printExprList(v.Values)
	case *ReturnStmt:
		pr.sb.WriteString("return")

		if len(v.Exprs) > 0 {
			pr.sb.WriteRune(' ')
			pr.printExprList(v.Exprs)
		}
	case *PassStmt:
		pr.sb.WriteString("pass")
	case ASTExpr:
		pr.printExpr(v, precLowest)
	}

	pr.sb.WriteRune('\n')
}

// printIf prints a conditional and its chain.  The keyword is either `if ` or
// `elif `.
func (pr *printer) printIf(ifs *IfStmt, keyword string) {
	pr.line()
	pr.sb.WriteString(keyword)
	pr.printExpr(ifs.Cond, precLowest)
	pr.sb.WriteString(":\n")
	pr.printBlock(ifs.Body)

	if next, ok := ifs.ChainedElse(); ok {
		pr.printIf(next, "elif ")
	} else if ifs.ElseBranch != nil {
		pr.line()
		pr.sb.WriteString("else:\n")
		pr.printBlock(ifs.ElseBranch)
	}
}

func (pr *printer) printIdents(idents []*Identifier) {
	for i, ident := range idents {
		if i > 0 {
			pr.sb.WriteString(", ")
		}

		pr.sb.WriteString(ident.Name)
	}
}

func (pr *printer) printExprList(exprs []ASTExpr) {
	for i, expr := range exprs {
		if i > 0 {
			pr.sb.WriteString(", ")
		}

		pr.printExpr(expr, precOr)
	}
}

// -----------------------------------------------------------------------------

// Enumeration of expression precedence levels, lowest to highest.
const (
	precLowest = iota
	precNamed
	precOr
	precAnd
	precNot
	precCompare
	precArith
	precTerm
	precUnary
	precAtom
)

// exprPrec returns the precedence level of an expression.
func exprPrec(expr ASTExpr) int {
	switch v := expr.(type) {
	case *NamedExpr:
		return precNamed
	case *BinaryOp:
		return binaryPrec(v.Op.Kind)
	case *UnaryOp:
		if v.Op.Kind == OP_NOT {
			return precNot
		}

		return precUnary
	}

	return precAtom
}

// binaryPrec returns the precedence level of a binary operator kind.
func binaryPrec(kind int) int {
	switch kind {
	case OP_OR:
		return precOr
	case OP_AND:
		return precAnd
	case OP_ADD, OP_SUB:
		return precArith
	case OP_MUL, OP_DIV, OP_MOD:
		return precTerm
	}

	return precCompare
}

// printExpr prints an expression, parenthesizing it if its precedence is below
// the minimum precedence required by its context.
func (pr *printer) printExpr(expr ASTExpr, minPrec int) {
	prec := exprPrec(expr)
	if prec < minPrec {
		pr.sb.WriteRune('(')
		defer pr.sb.WriteRune(')')
	}

	switch v := expr.(type) {
	case *Identifier:
		pr.sb.WriteString(v.Name)
	case *Literal:
		switch v.Kind {
		case LIT_STRING:
			pr.sb.WriteString(strconv.Quote(v.Value))
		default:
			pr.sb.WriteString(v.Value)
		}
	case *NamedExpr:
		pr.sb.WriteString(v.Target.Name)
		pr.sb.WriteString(" := ")
		pr.printExpr(v.Value, precNamed+1)
	case *BinaryOp:
		// Binary operators are left-associative and comparisons do not chain.
		rhsPrec := prec + 1
		lhsPrec := prec
		if v.Op.IsComparison() {
			lhsPrec = prec + 1
		}

		pr.printExpr(v.Lhs, lhsPrec)
		pr.sb.WriteRune(' ')
		pr.sb.WriteString(v.Op.Name)
		pr.sb.WriteRune(' ')
		pr.printExpr(v.Rhs, rhsPrec)
	case *UnaryOp:
		if v.Op.Kind == OP_NOT {
			pr.sb.WriteString("not ")
		} else {
			pr.sb.WriteString(v.Op.Name)
		}

		pr.printExpr(v.Operand, prec)
	case *Call:
		pr.printExpr(v.Func, precAtom)
		pr.sb.WriteRune('(')

		for i, arg := range v.Args {
			if i > 0 {
				pr.sb.WriteString(", ")
			}

			pr.printExpr(arg, precOr)
		}

		pr.sb.WriteRune(')')
	case *Tuple:
		pr.sb.WriteRune('(')

		for i, elem := range v.Exprs {
			if i > 0 {
				pr.sb.WriteString(", ")
			}

			pr.printExpr(elem, precOr)
		}

		if len(v.Exprs) == 1 {
			pr.sb.WriteRune(',')
		}

		pr.sb.WriteRune(')')
	}
}
