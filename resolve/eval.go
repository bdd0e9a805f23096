package resolve

import (
	"errors"
	"fmt"

	"github.com/lgsolve/mosox/gmpl"
)

// Binding maps a bound index letter to the concrete SetVal it holds during
// one grounded domain iteration.
type Binding map[string]gmpl.SetVal

var (
	ErrNonConstantGuard  = errors.New("guard expression is not constant")
	ErrInvalidShift      = errors.New("index shift applied to a non-integer value")
	ErrStringInAritmetic = errors.New("string value used in arithmetic context")
	ErrUnsupportedRelOp  = errors.New("comparison operator not supported here")
)

// EvalNumeric evaluates an Expr to a float64 in a purely numeric context:
// domain guards, if/then/else conditions, and parameter compute/default
// expressions never reference decision variables (doing so would be nonlinear
// nonsense the source dialect does not support), so this evaluator need not
// handle VarRefExpr naming a decision variable at all — only bound index
// letters and declared parameters.
func EvalNumeric(expr gmpl.Expr, bind Binding, lk *Lookups) (float64, error) {
	switch e := expr.(type) {
	case gmpl.NumberExpr:
		return e.Value, nil

	case gmpl.VarRefExpr:
		return evalVarRefNumeric(e, bind, lk)

	case gmpl.NegExpr:
		v, err := EvalNumeric(e.Operand, bind, lk)

		return -v, err

	case gmpl.BinOpExpr:
		lhs, err := EvalNumeric(e.LHS, bind, lk)
		if err != nil {
			return 0, err
		}

		rhs, err := EvalNumeric(e.RHS, bind, lk)
		if err != nil {
			return 0, err
		}

		return applyMathOp(e.Op, lhs, rhs)

	case gmpl.ConditionalExpr:
		ok, err := EvalLogic(e.Cond, bind, lk)
		if err != nil {
			return 0, err
		}

		if ok {
			return EvalNumeric(e.Then, bind, lk)
		}

		if e.Else != nil {
			return EvalNumeric(e.Else, bind, lk)
		}

		return 0, nil

	default:
		return 0, fmt.Errorf("%w: %s", ErrNonConstantGuard, expr.String())
	}
}

func applyMathOp(op gmpl.MathOp, lhs, rhs float64) (float64, error) {
	switch op {
	case gmpl.OpAdd:
		return lhs + rhs, nil
	case gmpl.OpSub:
		return lhs - rhs, nil
	case gmpl.OpMul:
		return lhs * rhs, nil
	case gmpl.OpDiv:
		return lhs / rhs, nil
	case gmpl.OpPow:
		result := 1.0

		n := int(rhs)
		for range max(n, 0) {
			result *= lhs
		}

		return result, nil
	default:
		return 0, fmt.Errorf("unknown math operator %v", op)
	}
}

func evalVarRefNumeric(ref gmpl.VarRefExpr, bind Binding, lk *Lookups) (float64, error) {
	if ref.Subscript == nil {
		if v, ok := bind[ref.Name]; ok {
			return setValToFloat(v)
		}

		val, ok, err := lk.Param(ref.Name, nil)
		if err != nil {
			return 0, err
		}

		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnresolvedSymbol, ref.Name)
		}

		return val, nil
	}

	idx, err := GroundSubscript(ref.Subscript, bind)
	if err != nil {
		return 0, err
	}

	val, ok, err := lk.Param(ref.Name, idx)
	if err != nil {
		return 0, err
	}

	if !ok {
		return 0, fmt.Errorf("%w: %s[%s]", ErrUnresolvedSymbol, ref.Name, idx.Key())
	}

	return val, nil
}

// GroundSubscript resolves every letter in a VarRefExpr's subscript against
// the current binding, applying any +1/-1 shift.
func GroundSubscript(subs []gmpl.SubscriptIndex, bind Binding) (gmpl.Index, error) {
	idx := make(gmpl.Index, len(subs))

	for i, s := range subs {
		v, ok := bind[s.Letter]
		if !ok {
			return nil, fmt.Errorf("%w: unbound index letter %q", ErrUnresolvedSymbol, s.Letter)
		}

		if s.Shift == gmpl.ShiftNone {
			idx[i] = v

			continue
		}

		n, ok := v.(gmpl.IntVal)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidShift, s.Letter)
		}

		if s.Shift == gmpl.ShiftPlus {
			idx[i] = gmpl.IntVal(n + 1)
		} else {
			idx[i] = gmpl.IntVal(n - 1)
		}
	}

	return idx, nil
}

func setValToFloat(v gmpl.SetVal) (float64, error) {
	switch n := v.(type) {
	case gmpl.IntVal:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrStringInAritmetic, v.String())
	}
}

// evalSetVal evaluates expr to a raw gmpl.SetVal rather than forcing it
// through EvalNumeric's float64, so a CompareExpr can tell a string operand
// (a literal, or a bound letter holding a string set member) from a numeric
// one before deciding which comparison it supports.
func evalSetVal(expr gmpl.Expr, bind Binding, lk *Lookups) (gmpl.SetVal, error) {
	switch e := expr.(type) {
	case gmpl.StrLitExpr:
		return gmpl.StrVal(e.Value), nil

	case gmpl.VarRefExpr:
		if e.Subscript == nil {
			if v, ok := bind[e.Name]; ok {
				return v, nil
			}
		}
	}

	f, err := EvalNumeric(expr, bind, lk)
	if err != nil {
		return nil, err
	}

	return gmpl.IntVal(int64(f)), nil
}

// EvalLogic evaluates a LogicExpr to a bool. Operands are numeric, as in
// EvalNumeric, except that a CompareExpr also accepts a pair of string
// operands for = and <>.
func EvalLogic(expr gmpl.LogicExpr, bind Binding, lk *Lookups) (bool, error) {
	switch e := expr.(type) {
	case gmpl.CompareExpr:
		lhs, err := evalSetVal(e.LHS, bind, lk)
		if err != nil {
			return false, err
		}

		rhs, err := evalSetVal(e.RHS, bind, lk)
		if err != nil {
			return false, err
		}

		ls, lIsStr := lhs.(gmpl.StrVal)
		rs, rIsStr := rhs.(gmpl.StrVal)

		if lIsStr || rIsStr {
			if !lIsStr || !rIsStr {
				return false, fmt.Errorf("%w: cannot compare a string to a number", ErrStringInAritmetic)
			}

			switch e.Op {
			case gmpl.RelEq:
				return ls == rs, nil
			case gmpl.RelNe:
				return ls != rs, nil
			default:
				return false, fmt.Errorf("%w: %s between strings", ErrUnsupportedRelOp, e.Op.String())
			}
		}

		lf, err := EvalNumeric(e.LHS, bind, lk)
		if err != nil {
			return false, err
		}

		rf, err := EvalNumeric(e.RHS, bind, lk)
		if err != nil {
			return false, err
		}

		return applyRelOp(e.Op, lf, rf), nil

	case gmpl.BoolOpExpr:
		lhs, err := EvalLogic(e.LHS, bind, lk)
		if err != nil {
			return false, err
		}

		if e.Op == gmpl.OpAnd && !lhs {
			return false, nil
		}

		if e.Op == gmpl.OpOr && lhs {
			return true, nil
		}

		return EvalLogic(e.RHS, bind, lk)

	default:
		return false, fmt.Errorf("%w: %s", ErrNonConstantGuard, expr.String())
	}
}

func applyRelOp(op gmpl.RelOp, lhs, rhs float64) bool {
	switch op {
	case gmpl.RelLt:
		return lhs < rhs
	case gmpl.RelLe:
		return lhs <= rhs
	case gmpl.RelEq:
		return lhs == rhs
	case gmpl.RelGe:
		return lhs >= rhs
	case gmpl.RelGt:
		return lhs > rhs
	case gmpl.RelNe:
		return lhs != rhs
	default:
		return false
	}
}
