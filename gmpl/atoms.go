// Package gmpl implements the typed abstract syntax for the GMPL-like
// modelling language: a custom participle lexer.Definition, a hand-written
// recursive-descent parser for declarations/domains/data blocks, and a
// Pratt (binding-power) climber for the arithmetic and logical expression
// sub-languages.
package gmpl

import (
	"fmt"
	"strconv"
	"strings"
)

// SetVal is a value that can appear as a member of a set: a string, an
// integer, or a tuple of two SetVals. Tuples of higher arity are not
// exercised by the source dialect but would extend naturally.
type SetVal interface {
	setVal()
	String() string
}

// StrVal is a string-valued set member.
type StrVal string

func (StrVal) setVal()         {}
func (s StrVal) String() string { return string(s) }

// IntVal is an integer-valued set member.
type IntVal int64

func (IntVal) setVal()          {}
func (n IntVal) String() string { return strconv.FormatInt(int64(n), 10) }

// TupleVal is a two-element tuple-valued set member.
type TupleVal [2]SetVal

func (TupleVal) setVal() {}
func (t TupleVal) String() string {
	return fmt.Sprintf("(%s,%s)", t[0].String(), t[1].String())
}

// Index is a grounded index: one concrete SetVal per bound dimension.
// It is used as a map key component via Key, and built up
// incrementally as index-letters are substituted during sum expansion.
type Index []SetVal

// String renders an index the way MPS row/column suffixes expect:
// "v1,v2,..." with no enclosing brackets (callers add brackets).
func (idx Index) String() string {
	if len(idx) == 0 {
		return ""
	}

	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = v.String()
	}

	return strings.Join(parts, ",")
}

// Key renders an index into a comparable string suitable for use as a Go map
// key component (column/row keys embed this alongside the name).
func (idx Index) Key() string { return idx.String() }

// RelOp is a comparison/constraint operator. Strict operators (<, >, ≠) are
// representable so that parsing always succeeds; §7 UnsupportedRelOp rejects
// them only where the spec requires one of ≤, =, ≥.
type RelOp int

const (
	RelLt RelOp = iota
	RelLe
	RelEq
	RelGe
	RelGt
	RelNe
)

func (op RelOp) String() string {
	switch op {
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelEq:
		return "="
	case RelGe:
		return ">="
	case RelGt:
		return ">"
	case RelNe:
		return "<>"
	default:
		return "?"
	}
}

// MathOp is an arithmetic binary operator.
type MathOp int

const (
	OpAdd MathOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

func (op MathOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	default:
		return "?"
	}
}

// BoolOp is a logical connective.
type BoolOp int

const (
	OpAnd BoolOp = iota
	OpOr
)

func (op BoolOp) String() string {
	if op == OpAnd {
		return "and"
	}

	return "or"
}

// IndexShift is an integer shift (i+1, i-1) applied to a subscript index
// letter at grounding time.
type IndexShift int

const (
	ShiftNone IndexShift = iota
	ShiftPlus
	ShiftMinus
)

// RowKey identifies a single row instance: a row name plus its grounded
// index (empty for the objective and for unindexed constraints).
type RowKey struct {
	Name  string
	Index string
}

func NewRowKey(name string, idx Index) RowKey {
	return RowKey{Name: name, Index: idx.Key()}
}

func (k RowKey) String() string {
	if k.Index == "" {
		return k.Name
	}

	return k.Name + "[" + k.Index + "]"
}

// ColKey identifies a single decision-variable instance: a variable name
// plus its grounded index.
type ColKey struct {
	Var   string
	Index string
}

func NewColKey(name string, idx Index) ColKey {
	return ColKey{Var: name, Index: idx.Key()}
}

func (k ColKey) String() string {
	if k.Index == "" {
		return k.Var
	}

	return k.Var + "[" + k.Index + "]"
}
