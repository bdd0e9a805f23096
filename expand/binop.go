package expand

import (
	"fmt"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/resolve"
)

// recurseBinOp reduces a binary arithmetic node, collapsing to a single Num
// term whenever both sides are constant and otherwise combining the
// variable side's coefficients with the constant side's value. Mirrors
// constraints.rs's BinOp arm of recurse exactly, including which
// combinations of var-on-both-sides are rejected as nonlinear.
func recurseBinOp(e gmpl.BinOpExpr, bind resolve.Binding, lk *resolve.Lookups) ([]Term, error) {
	lhs, err := Recurse(e.LHS, bind, lk)
	if err != nil {
		return nil, err
	}

	rhs, err := Recurse(e.RHS, bind, lk)
	if err != nil {
		return nil, err
	}

	lhsNum, lhsIsNum := resolveTermsToNum(lhs)
	rhsNum, rhsIsNum := resolveTermsToNum(rhs)

	switch e.Op {
	case gmpl.OpAdd:
		if lhsIsNum && rhsIsNum {
			return []Term{{IsNum: true, Num: lhsNum + rhsNum}}, nil
		}

		return append(append([]Term{}, lhs...), rhs...), nil

	case gmpl.OpSub:
		if lhsIsNum && rhsIsNum {
			return []Term{{IsNum: true, Num: lhsNum - rhsNum}}, nil
		}

		return append(append([]Term{}, lhs...), negateTerms(rhs)...), nil

	case gmpl.OpMul:
		switch {
		case lhsIsNum && rhsIsNum:
			return []Term{{IsNum: true, Num: lhsNum * rhsNum}}, nil
		case lhsIsNum != rhsIsNum:
			num, terms := lhsNum, rhs
			if rhsIsNum {
				num, terms = rhsNum, lhs
			}

			return scaleTerms(terms, func(t Term) Term {
				if t.IsNum {
					return Term{IsNum: true, Num: t.Num * num}
				}

				p := t.Pair
				p.Coeff *= num

				return Term{Pair: p}
			}), nil
		default:
			return nil, fmt.Errorf("%w: variable on both sides of a multiplication", ErrNonlinearTerm)
		}

	case gmpl.OpDiv:
		switch {
		case lhsIsNum && rhsIsNum:
			return []Term{{IsNum: true, Num: lhsNum / rhsNum}}, nil
		case !lhsIsNum && rhsIsNum:
			return scaleTerms(lhs, func(t Term) Term {
				if t.IsNum {
					return Term{IsNum: true, Num: t.Num / rhsNum}
				}

				p := t.Pair
				p.Coeff /= rhsNum

				return Term{Pair: p}
			}), nil
		default:
			return nil, fmt.Errorf("%w: variable divisor, or variable on both sides of a division", ErrNonlinearTerm)
		}

	case gmpl.OpPow:
		if lhsIsNum && rhsIsNum {
			result := 1.0

			n := int(rhsNum)
			for range max(n, 0) {
				result *= lhsNum
			}

			return []Term{{IsNum: true, Num: result}}, nil
		}

		return nil, fmt.Errorf("%w: variable base or exponent", ErrNonlinearTerm)

	default:
		return nil, fmt.Errorf("expand: unknown math operator %v", e.Op)
	}
}

func scaleTerms(terms []Term, f func(Term) Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = f(t)
	}

	return out
}
