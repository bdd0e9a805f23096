package gmpl

import (
	"fmt"
	"strings"
)

// Expr is the arithmetic expression AST. It is a closed sum type realised as
// an interface with one concrete type per variant, matched exhaustively by
// type switch wherever it is consumed (gmpl, expand). New leaf kinds are
// rare by design (§9) so this is preferred over subclass polymorphism.
type Expr interface {
	exprNode()
	fmt.Stringer
}

// NumberExpr is a literal number.
type NumberExpr struct {
	Value float64
}

func (NumberExpr) exprNode() {}
func (n NumberExpr) String() string {
	return trimFloat(n.Value)
}

// StrLitExpr is a literal quoted string, valid only as an operand of a
// string-valued comparison (§4.5: string equality/inequality against a
// bound index letter) — arithmetic operators never accept one.
type StrLitExpr struct {
	Value string
}

func (StrLitExpr) exprNode() {}
func (s StrLitExpr) String() string {
	return `"` + s.Value + `"`
}

// SubscriptIndex is one component of a VarRefExpr's subscript: a bound index
// letter, possibly shifted (e.g. t-1), grounded against the current binding
// by resolve.GroundSubscript.
type SubscriptIndex struct {
	Letter string
	Shift  IndexShift
}

func (s SubscriptIndex) String() string {
	switch s.Shift {
	case ShiftPlus:
		return s.Letter + "+1"
	case ShiftMinus:
		return s.Letter + "-1"
	default:
		return s.Letter
	}
}

// VarRefExpr is a (possibly subscripted) reference to a variable, parameter,
// or bound index-letter; which of the three it denotes is resolved later by
// the expansion engine against the Lookups (§4.4), not at parse time.
type VarRefExpr struct {
	Name      string
	Subscript []SubscriptIndex // nil if unsubscripted
}

func (VarRefExpr) exprNode() {}
func (v VarRefExpr) String() string {
	if v.Subscript == nil {
		return v.Name
	}

	parts := make([]string, len(v.Subscript))
	for i, s := range v.Subscript {
		parts[i] = s.String()
	}

	return v.Name + "[" + strings.Join(parts, ",") + "]"
}

// SumExpr is sum{domain} operand.
type SumExpr struct {
	Domain  *Domain
	Operand Expr
}

func (SumExpr) exprNode() {}
func (s SumExpr) String() string {
	return "sum{" + s.Domain.String() + "} " + s.Operand.String()
}

// MinExpr is min{domain}; the domain is restricted to a single
// integer-valued dimension at resolution time (§4.4).
type MinExpr struct {
	Domain *Domain
}

func (MinExpr) exprNode() {}
func (m MinExpr) String() string { return "min{" + m.Domain.String() + "}" }

// MaxExpr is max{domain}.
type MaxExpr struct {
	Domain *Domain
}

func (MaxExpr) exprNode() {}
func (m MaxExpr) String() string { return "max{" + m.Domain.String() + "}" }

// ConditionalExpr is `if cond then expr [else expr]`.
type ConditionalExpr struct {
	Cond Logic
	Then Expr
	Else Expr // nil if absent
}

func (ConditionalExpr) exprNode() {}
func (c ConditionalExpr) String() string {
	s := "if " + c.Cond.String() + " then " + c.Then.String()
	if c.Else != nil {
		s += " else " + c.Else.String()
	}

	return s
}

// NegExpr is unary negation.
type NegExpr struct {
	Operand Expr
}

func (NegExpr) exprNode() {}
func (n NegExpr) String() string { return "-" + n.Operand.String() }

// BinOpExpr is a binary arithmetic operation.
type BinOpExpr struct {
	LHS Expr
	Op  MathOp
	RHS Expr
}

func (BinOpExpr) exprNode() {}
func (b BinOpExpr) String() string {
	return "(" + b.LHS.String() + " " + b.Op.String() + " " + b.RHS.String() + ")"
}

// LogicExpr is the boolean/comparison expression AST used in domain guards,
// WHERE-style conditions in constraints, and if/then/else conditions.
type LogicExpr interface {
	logicNode()
	fmt.Stringer
}

// Logic is an alias kept for readability at call sites that embed a
// LogicExpr directly (e.g. ConditionalExpr.Cond).
type Logic = LogicExpr

// CompareExpr is a single comparison between two arithmetic expressions.
type CompareExpr struct {
	LHS Expr
	Op  RelOp
	RHS Expr
}

func (CompareExpr) logicNode() {}
func (c CompareExpr) String() string {
	return c.LHS.String() + " " + c.Op.String() + " " + c.RHS.String()
}

// BoolOpExpr is a conjunction/disjunction of two logical expressions.
type BoolOpExpr struct {
	LHS LogicExpr
	Op  BoolOp
	RHS LogicExpr
}

func (BoolOpExpr) logicNode() {}
func (b BoolOpExpr) String() string {
	return "(" + b.LHS.String() + " " + b.Op.String() + " " + b.RHS.String() + ")"
}

// trimFloat renders a float64 the way the MPS/debug-dump output wants:
// integral values print without a trailing ".0".
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}

	return fmt.Sprintf("%g", f)
}
