package resolve

import (
	"fmt"

	"github.com/lgsolve/mosox/gmpl"
)

// Combo is one grounded combination produced by enumerating a Domain: the
// flattened index (tuple binders contribute two entries) and the full
// binding of every letter the domain introduced, ready to substitute into
// the sum{}/min{}/max{} operand or constraint body.
type Combo struct {
	Index   gmpl.Index
	Binding Binding
}

// EnumerateDomain walks the Cartesian product of dom's parts in order,
// evaluating the guard (if any) against each candidate binding, and returns
// the surviving combinations. outer carries bindings from an enclosing
// sum{}/min{}/max{} or constraint domain so that a later part's set
// expression can reference an earlier-bound letter (`j in NBR[i]`).
//
// Grounded on mps/constraints.rs's domain_to_indexes/check_domain_condition,
// merged into one recursive walk since Go has no issue keeping the
// accumulating binding on the stack across levels.
func EnumerateDomain(dom *gmpl.Domain, lk *Lookups, outer Binding) ([]Combo, error) {
	if dom == nil {
		return []Combo{{}}, nil
	}

	var combos []Combo

	err := enumerateParts(dom.Parts, 0, cloneBinding(outer), nil, lk, func(idx gmpl.Index, bind Binding) error {
		if dom.Guard != nil {
			ok, err := EvalLogic(dom.Guard, bind, lk)
			if err != nil {
				return err
			}

			if !ok {
				return nil
			}
		}

		combos = append(combos, Combo{Index: append(gmpl.Index{}, idx...), Binding: cloneBinding(bind)})

		return nil
	})

	return combos, err
}

func enumerateParts(
	parts []gmpl.DomainPart,
	i int,
	bind Binding,
	idx gmpl.Index,
	lk *Lookups,
	emit func(gmpl.Index, Binding) error,
) error {
	if i == len(parts) {
		return emit(idx, bind)
	}

	part := parts[i]

	rs, err := resolveSetExprInline(part.Set, bind, lk)
	if err != nil {
		return err
	}

	for _, elem := range rs.Elements {
		nextBind := cloneBinding(bind)

		var nextIdx gmpl.Index

		switch {
		case len(part.Var.Tuple) == 0:
			nextBind[part.Var.Single] = elem
			nextIdx = append(append(gmpl.Index{}, idx...), elem)

		default:
			tup, ok := elem.(gmpl.TupleVal)
			if !ok {
				return fmt.Errorf("%w: tuple binder over non-tuple set element %s", ErrUnresolvedSymbol, elem.String())
			}

			if len(part.Var.Tuple) > 0 {
				nextBind[part.Var.Tuple[0]] = tup[0]
			}

			if len(part.Var.Tuple) > 1 {
				nextBind[part.Var.Tuple[1]] = tup[1]
			}

			nextIdx = append(append(gmpl.Index{}, idx...), tup[0], tup[1])
		}

		if err := enumerateParts(parts, i+1, nextBind, nextIdx, lk, emit); err != nil {
			return err
		}
	}

	return nil
}

// bindingFromDomain reconstructs the binding that EnumerateDomain would have
// produced for idx, by zipping each part's bound name(s) against idx
// positionally (a tuple binder consumes two elements, a single binder one).
// Used to ground a parameter's Compute/Default/guard expression against its
// own domain's index letters at lazy-resolution time, without
// re-enumerating the whole domain on every access.
func bindingFromDomain(dom *gmpl.Domain, idx gmpl.Index) (Binding, error) {
	bind := Binding{}

	if dom == nil {
		return bind, nil
	}

	pos := 0

	for _, part := range dom.Parts {
		if len(part.Var.Tuple) == 0 {
			if pos >= len(idx) {
				return nil, fmt.Errorf("%w: index arity does not match domain", ErrUnresolvedSymbol)
			}

			bind[part.Var.Single] = idx[pos]
			pos++

			continue
		}

		if pos+1 >= len(idx) {
			return nil, fmt.Errorf("%w: index arity does not match domain", ErrUnresolvedSymbol)
		}

		if len(part.Var.Tuple) > 0 {
			bind[part.Var.Tuple[0]] = idx[pos]
		}

		if len(part.Var.Tuple) > 1 {
			bind[part.Var.Tuple[1]] = idx[pos+1]
		}

		pos += 2
	}

	return bind, nil
}

func cloneBinding(b Binding) Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}

	return out
}

// resolveSetExprInline resolves a SetExpr appearing as a domain part's set
// (rather than a top-level Set declaration's body): a reference to a
// declared set, optionally subscripted, combined via union/inter/diff, a
// literal list, or a nested setof{}.
func resolveSetExprInline(se gmpl.SetExpr, bind Binding, lk *Lookups) (ResolvedSet, error) {
	switch e := se.(type) {
	case gmpl.SetRefExpr:
		if e.Subscript == nil {
			return lk.Set(e.Name, nil)
		}

		idx, err := GroundSubscript(e.Subscript, bind)
		if err != nil {
			return ResolvedSet{}, err
		}

		return lk.Set(e.Name, idx)

	case gmpl.SetLiteralExpr:
		return ResolvedSet{Elements: e.Values}, nil

	case gmpl.SetMathExpr:
		lhs, err := resolveSetExprInline(e.LHS, bind, lk)
		if err != nil {
			return ResolvedSet{}, err
		}

		rhs, err := resolveSetExprInline(e.RHS, bind, lk)
		if err != nil {
			return ResolvedSet{}, err
		}

		return ResolvedSet{Elements: combineSets(e.Op, lhs.Elements, rhs.Elements)}, nil

	case gmpl.SetOfExpr:
		combos, err := EnumerateDomain(e.Domain, lk, bind)
		if err != nil {
			return ResolvedSet{}, err
		}

		elems := make([]gmpl.SetVal, 0, len(combos))

		for _, c := range combos {
			if len(e.Result) == 1 {
				elems = append(elems, c.Binding[e.Result[0]])
			} else if len(e.Result) == 2 {
				elems = append(elems, gmpl.TupleVal{c.Binding[e.Result[0]], c.Binding[e.Result[1]]})
			}
		}

		return ResolvedSet{Elements: elems}, nil

	default:
		return ResolvedSet{}, fmt.Errorf("unsupported set expression %T", se)
	}
}

func combineSets(op gmpl.SetMathOp, lhs, rhs []gmpl.SetVal) []gmpl.SetVal {
	rhsKeys := make(map[string]bool, len(rhs))
	for _, v := range rhs {
		rhsKeys[v.String()] = true
	}

	var out []gmpl.SetVal

	switch op {
	case gmpl.SetUnion:
		out = append(out, lhs...)

		seen := make(map[string]bool, len(lhs))
		for _, v := range lhs {
			seen[v.String()] = true
		}

		for _, v := range rhs {
			if !seen[v.String()] {
				out = append(out, v)
			}
		}

	case gmpl.SetInter:
		for _, v := range lhs {
			if rhsKeys[v.String()] {
				out = append(out, v)
			}
		}

	case gmpl.SetDiff:
		for _, v := range lhs {
			if !rhsKeys[v.String()] {
				out = append(out, v)
			}
		}
	}

	return out
}
