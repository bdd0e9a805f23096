// Package expand grounds a constraint or objective body's Expr tree into a
// linear combination of terms: a flat list of (variable, coefficient) pairs
// plus a constant, ready for the matrix assembly in package compile.
//
// Grounded on mps/constraints.rs's recurse/algebra. The original expands
// sum{} by literally rewriting the operand's AST for each grounded
// combination (expand_sum/substitute_vars) and re-running recurse over the
// rewritten copy; that substitution step only handles a handful of Expr
// variants and panics on a nested Sum or Conditional inside a sum operand.
// Recurse instead threads the accumulating resolve.Binding straight through
// every recursive call, so a sum{} operand can itself contain another
// sum{}, a min{}/max{}, or a conditional without any special-casing.
package expand

import (
	"errors"
	"fmt"

	"github.com/lgsolve/mosox/gmpl"
	"github.com/lgsolve/mosox/resolve"
)

var (
	ErrIllegalMinMax    = errors.New("min{}/max{} requires a domain with exactly one integer-valued dimension")
	ErrNonlinearTerm    = errors.New("expression is not linear in the decision variables")
	ErrEmptyReduction   = errors.New("sum{}/min{}/max{} domain produced no terms")
	ErrUnknownReference = errors.New("symbol does not name a declared variable, parameter, or bound index")
)

// Pair is one linear term: coeff * var[index]. Index is nil for a scalar
// variable.
type Pair struct {
	Var   string
	Index gmpl.Index
	Coeff float64
}

// Term is either a plain number or a variable pair — the two kinds that
// show up while walking an Expr tree before it has been reduced to its
// final linear form. Grounded on constraints.rs's Term enum; represented
// here as a flat struct with a discriminant flag rather than an interface,
// since the two shapes are known in full up front and never grow a third.
type Term struct {
	IsNum bool
	Num   float64
	Pair  Pair
}

// Recurse walks expr under bind, returning the list of terms it reduces to.
// bind carries whatever index letters are already bound in the enclosing
// sum{}/constraint domain; expr's own sum{}/min{}/max{} sub-expressions
// extend it further down the recursion.
func Recurse(expr gmpl.Expr, bind resolve.Binding, lk *resolve.Lookups) ([]Term, error) {
	switch e := expr.(type) {
	case gmpl.NumberExpr:
		return []Term{{IsNum: true, Num: e.Value}}, nil

	case gmpl.VarRefExpr:
		return recurseVarRef(e, bind, lk)

	case gmpl.SumExpr:
		return recurseSum(e, bind, lk)

	case gmpl.MinExpr:
		v, err := minMaxBound(e.Domain, lk, false)
		if err != nil {
			return nil, err
		}

		return []Term{{IsNum: true, Num: v}}, nil

	case gmpl.MaxExpr:
		v, err := minMaxBound(e.Domain, lk, true)
		if err != nil {
			return nil, err
		}

		return []Term{{IsNum: true, Num: v}}, nil

	case gmpl.ConditionalExpr:
		ok, err := resolve.EvalLogic(e.Cond, bind, lk)
		if err != nil {
			return nil, err
		}

		if ok {
			return Recurse(e.Then, bind, lk)
		}

		if e.Else != nil {
			return Recurse(e.Else, bind, lk)
		}

		return []Term{{IsNum: true, Num: 0}}, nil

	case gmpl.NegExpr:
		terms, err := Recurse(e.Operand, bind, lk)
		if err != nil {
			return nil, err
		}

		return negateTerms(terms), nil

	case gmpl.BinOpExpr:
		return recurseBinOp(e, bind, lk)

	default:
		return nil, fmt.Errorf("expand: unsupported expression %T", expr)
	}
}

// recurseVarRef resolves a name against, in order: the current binding (a
// bound index letter used as a bare number, e.g. `y` inside `sum{y in
// YEAR} y * rate[y]`), a declared decision variable (becomes a Pair with
// coefficient 1), or a declared parameter (becomes a Num, recursing into
// its compute expression when it has one).
func recurseVarRef(ref gmpl.VarRefExpr, bind resolve.Binding, lk *resolve.Lookups) ([]Term, error) {
	if ref.Subscript == nil {
		if v, ok := bind[ref.Name]; ok {
			n, ok := v.(gmpl.IntVal)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNonlinearTerm, ref.Name)
			}

			return []Term{{IsNum: true, Num: float64(n)}}, nil
		}
	}

	if _, ok := lk.VarDecls[ref.Name]; ok {
		var idx gmpl.Index

		if ref.Subscript != nil {
			var err error

			idx, err = resolve.GroundSubscript(ref.Subscript, bind)
			if err != nil {
				return nil, err
			}
		}

		return []Term{{Pair: Pair{Var: ref.Name, Index: idx, Coeff: 1}}}, nil
	}

	if _, declared := lk.ParamDecls[ref.Name]; declared {
		var idx gmpl.Index

		if ref.Subscript != nil {
			var err error

			idx, err = resolve.GroundSubscript(ref.Subscript, bind)
			if err != nil {
				return nil, err
			}
		}

		// lk.Param resolves this instance lazily — data, then compute
		// expression, then default, then ErrUninitializedParam — grounding
		// Compute/Default against the parameter's own domain letters rather
		// than this reference site's enclosing binding.
		val, ok, err := lk.Param(ref.Name, idx)
		if err != nil {
			return nil, err
		}

		if ok {
			return []Term{{IsNum: true, Num: val}}, nil
		}

		return nil, fmt.Errorf("%w: %s[%s]", resolve.ErrUnresolvedSymbol, ref.Name, idx.Key())
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownReference, ref.Name)
}

// recurseSum expands a sum{domain} operand by enumerating the domain under
// the current binding and recursing into the operand once per grounded
// combination, concatenating every resulting term list.
func recurseSum(e gmpl.SumExpr, bind resolve.Binding, lk *resolve.Lookups) ([]Term, error) {
	combos, err := resolve.EnumerateDomain(e.Domain, lk, bind)
	if err != nil {
		return nil, err
	}

	var out []Term

	for _, combo := range combos {
		terms, err := Recurse(e.Operand, combo.Binding, lk)
		if err != nil {
			return nil, err
		}

		out = append(out, terms...)
	}

	if out == nil {
		return []Term{{IsNum: true, Num: 0}}, nil
	}

	return out, nil
}

// minMaxBound resolves min{domain}/max{domain}: the source dialect only
// ever uses this over a single integer-valued dimension, to pick out the
// first or last year/period of a set.
func minMaxBound(dom *gmpl.Domain, lk *resolve.Lookups, wantMax bool) (float64, error) {
	if dom == nil || len(dom.Parts) != 1 {
		return 0, ErrIllegalMinMax
	}

	rs, err := lk.Set(domainPartSetName(dom.Parts[0].Set), nil)
	if err != nil {
		return 0, err
	}

	if len(rs.Elements) == 0 {
		return 0, fmt.Errorf("%w: empty set", ErrIllegalMinMax)
	}

	best, ok := rs.Elements[0].(gmpl.IntVal)
	if !ok {
		return 0, fmt.Errorf("%w: non-integer element", ErrIllegalMinMax)
	}

	for _, elem := range rs.Elements[1:] {
		n, ok := elem.(gmpl.IntVal)
		if !ok {
			return 0, fmt.Errorf("%w: non-integer element", ErrIllegalMinMax)
		}

		if (wantMax && n > best) || (!wantMax && n < best) {
			best = n
		}
	}

	return float64(best), nil
}

func domainPartSetName(se gmpl.SetExpr) string {
	if ref, ok := se.(gmpl.SetRefExpr); ok {
		return ref.Name
	}

	return ""
}

func negateTerms(terms []Term) []Term {
	out := make([]Term, len(terms))

	for i, t := range terms {
		if t.IsNum {
			out[i] = Term{IsNum: true, Num: -t.Num}
		} else {
			p := t.Pair
			p.Coeff = -p.Coeff
			out[i] = Term{Pair: p}
		}
	}

	return out
}

// resolveTermsToNum collapses terms to a single float64 if and only if
// every term is a plain number; it returns ok=false the moment it sees a
// Pair, mirroring resolve_terms_to_num's all-or-nothing fold.
func resolveTermsToNum(terms []Term) (float64, bool) {
	sum := 0.0

	for _, t := range terms {
		if !t.IsNum {
			return 0, false
		}

		sum += t.Num
	}

	return sum, true
}
